package analyzer

// PruningOptimizer runs only after parameter binding (spec §4.2): rules
// such as constant folding are unsafe to run on a template plan still
// holding placeholders, since a placeholder's bound value isn't known
// until instantiation. Kept as a distinct, idempotent pass from the main
// Optimizer rather than folded into it (spec §9 rationale).
func NewPruningOptimizer() *Optimizer {
	return New(
		FoldConstantComparison,
		EliminateTrivialFilter,
	)
}
