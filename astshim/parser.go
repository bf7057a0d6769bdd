package astshim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type token struct {
	text   string
	offset int
}

func tokenize(sql string) []token {
	var toks []token
	i := 0
	n := len(sql)
	for i < n {
		c := sql[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '\'':
			start := i
			i++
			for i < n && sql[i] != '\'' {
				i++
			}
			i++ // consume closing quote
			toks = append(toks, token{text: sql[start:i], offset: start})
		case c == '(' || c == ')' || c == ',' || c == '=' || c == ';':
			toks = append(toks, token{text: string(c), offset: i})
			i++
		default:
			start := i
			for i < n && !strings.ContainsRune(" \t\n\r(),=;", rune(sql[i])) {
				i++
			}
			toks = append(toks, token{text: sql[start:i], offset: start})
		}
	}
	return toks
}

// Parse parses a single SQL statement. On malformed input it returns a
// *ParseDiagnostic wrapped as an error; callers propagate it verbatim into
// sql.ErrParse (spec §6.1, §7).
func Parse(sqlText string) (*Statement, error) {
	toks := tokenize(sqlText)
	if len(toks) == 0 {
		return nil, &ParseDiagnostic{Offset: 0, Token: "", Message: "empty statement"}
	}
	p := &parser{toks: toks, raw: sqlText}
	return p.parseStatement()
}

func (d *ParseDiagnostic) Error() string {
	return fmt.Sprintf("%s at offset %d (token %q)", d.Message, d.Offset, d.Token)
}

type parser struct {
	toks []token
	pos  int
	raw  string
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) upperIs(t token, word string) bool {
	return strings.EqualFold(t.text, word)
}

func (p *parser) expectKeyword(word string) (token, error) {
	t, ok := p.next()
	if !ok || !p.upperIs(t, word) {
		off, tok := p.errPos(t, ok)
		return token{}, &ParseDiagnostic{Offset: off, Token: tok, Message: fmt.Sprintf("expected %q", word)}
	}
	return t, nil
}

func (p *parser) errPos(t token, ok bool) (int, string) {
	if ok {
		return t.offset, t.text
	}
	return len(p.raw), "<eof>"
}

func (p *parser) parseStatement() (*Statement, error) {
	first, ok := p.peek()
	if !ok {
		return nil, &ParseDiagnostic{Offset: 0, Message: "empty statement"}
	}
	switch strings.ToUpper(first.text) {
	case "SELECT":
		return p.parseSelect()
	case "CREATE":
		return p.parseCreate()
	case "DROP":
		return p.parseDrop()
	case "IMPORT":
		return p.parseImport()
	case "EXPORT":
		return p.parseExport()
	case "PREPARE":
		return p.parsePrepare()
	case "EXECUTE":
		return p.parseExecute()
	default:
		return nil, &ParseDiagnostic{Offset: first.offset, Token: first.text, Message: "unrecognized statement"}
	}
}

func (p *parser) parseSelect() (*Statement, error) {
	if _, err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	var cols []string
	for {
		t, ok := p.next()
		if !ok {
			return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected column list"}
		}
		cols = append(cols, t.text)
		nt, ok := p.peek()
		if ok && nt.text == "," {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	tableTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected table name"}
	}
	stmt := &Statement{Kind: Select, Table: tableTok.text, Columns: cols}

	if nt, ok := p.peek(); ok && p.upperIs(nt, "WHERE") {
		p.next()
		colTok, _ := p.next()
		opTok, _ := p.next()
		valTok, _ := p.next()
		val, err := parseLiteral(valTok.text)
		if err != nil {
			return nil, &ParseDiagnostic{Offset: valTok.offset, Token: valTok.text, Message: err.Error()}
		}
		stmt.Where = &Condition{Column: colTok.text, Op: opTok.text, Value: val}
	}

	if nt, ok := p.peek(); ok && p.upperIs(nt, "LIMIT") {
		p.next()
		lt, _ := p.next()
		n, err := strconv.ParseInt(lt.text, 10, 64)
		if err != nil {
			return nil, &ParseDiagnostic{Offset: lt.offset, Token: lt.text, Message: "invalid LIMIT value"}
		}
		stmt.Limit = n
		stmt.HasLimit = true
	}
	return stmt, nil
}

func (p *parser) parseCreate() (*Statement, error) {
	p.next() // CREATE
	t, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected TABLE or VIEW"}
	}
	switch strings.ToUpper(t.text) {
	case "TABLE":
		return p.parseCreateTable()
	case "VIEW":
		return p.parseCreateView()
	default:
		return nil, &ParseDiagnostic{Offset: t.offset, Token: t.text, Message: "expected TABLE or VIEW"}
	}
}

func (p *parser) parseCreateTable() (*Statement, error) {
	stmt := &Statement{Kind: CreateTable}
	if nt, ok := p.peek(); ok && p.upperIs(nt, "IF") {
		p.next()
		if _, err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if _, err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
	}
	nameTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected table name"}
	}
	stmt.NewTable = nameTok.text
	if _, err := p.expectParen("("); err != nil {
		return nil, err
	}
	for {
		nameTok, ok := p.next()
		if !ok {
			return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected column name"}
		}
		typeTok, ok := p.next()
		if !ok {
			return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected column type"}
		}
		stmt.ColumnDefs = append(stmt.ColumnDefs, ColumnDef{Name: nameTok.text, Type: typeTok.text})
		nt, ok := p.peek()
		if ok && nt.text == "," {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expectParen(")"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseCreateView() (*Statement, error) {
	stmt := &Statement{Kind: CreateView}
	if nt, ok := p.peek(); ok && p.upperIs(nt, "IF") {
		p.next()
		p.next() // NOT
		p.next() // EXISTS
		stmt.IfNotExists = true
	}
	nameTok, _ := p.next()
	stmt.ViewName = nameTok.text
	if _, err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	inner, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	stmt.ViewDef = inner
	return stmt, nil
}

func (p *parser) parseDrop() (*Statement, error) {
	p.next() // DROP
	t, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected TABLE or VIEW"}
	}
	kind := DropTable
	switch strings.ToUpper(t.text) {
	case "TABLE":
		kind = DropTable
	case "VIEW":
		kind = DropView
	default:
		return nil, &ParseDiagnostic{Offset: t.offset, Token: t.text, Message: "expected TABLE or VIEW"}
	}
	stmt := &Statement{Kind: kind}
	if nt, ok := p.peek(); ok && p.upperIs(nt, "IF") {
		p.next()
		if _, err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		stmt.IfExists = true
	}
	nameTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected name"}
	}
	stmt.DropName = nameTok.text
	return stmt, nil
}

func (p *parser) parseImport() (*Statement, error) {
	p.next() // IMPORT
	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	fileTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected file literal"}
	}
	if _, err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	intoTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected table name"}
	}
	return &Statement{Kind: Import, File: unquote(fileTok.text), Into: intoTok.text}, nil
}

func (p *parser) parseExport() (*Statement, error) {
	p.next() // EXPORT
	fromTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected table name"}
	}
	if _, err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	fileTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected file literal"}
	}
	return &Statement{Kind: Export, From: fromTok.text, File: unquote(fileTok.text)}, nil
}

func (p *parser) parsePrepare() (*Statement, error) {
	p.next() // PREPARE
	nameTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected prepared statement name"}
	}
	if _, err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	sqlTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected SQL text literal"}
	}
	return &Statement{Kind: Prepare, Name: nameTok.text, SQLText: unquote(sqlTok.text)}, nil
}

func (p *parser) parseExecute() (*Statement, error) {
	p.next() // EXECUTE
	nameTok, ok := p.next()
	if !ok {
		return nil, &ParseDiagnostic{Offset: len(p.raw), Message: "expected prepared statement name"}
	}
	stmt := &Statement{Kind: Execute, Name: nameTok.text}
	if nt, ok := p.peek(); ok && p.upperIs(nt, "USING") {
		p.next()
		for {
			vt, ok := p.next()
			if !ok {
				break
			}
			v, err := parseLiteral(vt.text)
			if err != nil {
				return nil, &ParseDiagnostic{Offset: vt.offset, Token: vt.text, Message: err.Error()}
			}
			stmt.ExecArgs = append(stmt.ExecArgs, v)
			if nt, ok := p.peek(); ok && nt.text == "," {
				p.next()
				continue
			}
			break
		}
	}
	return stmt, nil
}

func (p *parser) expectParen(which string) (token, error) {
	t, ok := p.next()
	if !ok || t.text != which {
		off, tok := p.errPos(t, ok)
		return token{}, &ParseDiagnostic{Offset: off, Token: tok, Message: fmt.Sprintf("expected %q", which)}
	}
	return t, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseLiteral(text string) (interface{}, error) {
	if strings.EqualFold(text, "NULL") {
		return nil, nil
	}
	if len(text) >= 2 && text[0] == '\'' && text[len(text)-1] == '\'' {
		return unquote(text), nil
	}
	if strings.EqualFold(text, "TRUE") {
		return true, nil
	}
	if strings.EqualFold(text, "FALSE") {
		return false, nil
	}
	// A trailing 'd'/'D' marks a fixed-point decimal literal (e.g. "19.99d"),
	// the way C#-family languages suffix decimal constants with 'm'; kept
	// distinct from float64 literals so exact decimal arithmetic survives
	// the pipeline (spec §3's Literal value carries a declared DataType).
	if len(text) > 1 && (text[len(text)-1] == 'd' || text[len(text)-1] == 'D') {
		if dec, err := decimal.NewFromString(text[:len(text)-1]); err == nil {
			return dec, nil
		}
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid literal %q", text)
}

// Split breaks a multi-statement script into individual statement texts at
// top-level `;` boundaries (spec §4.6 "splits the script into statements at
// the parser level").
func Split(script string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	for _, r := range script {
		if r == '\'' {
			inQuote = !inQuote
		}
		if r == ';' && !inQuote {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}
