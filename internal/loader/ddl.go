// Package loader builds schema models and worksheets from external
// descriptions: DDL files for databases and YAML documents for
// worksheets.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/schemalint/schemalint/pkg/model"
)

// DDLParser reads SQL DDL and builds a database model. Parsing is
// line-oriented and forgiving: statements it cannot understand are
// logged and skipped, never fatal.
//
// Assumptions about the DDL being read:
//   - Statements end with a semicolon.
//   - CREATE TABLE and its table name appear on a single line.
//   - Delimiters such as commas are not part of table or column names.
//   - The CREATE TABLE column list has balanced parentheses.
type DDLParser struct {
	databaseName string
	schemaName   string
	logger       *slog.Logger
}

// NewDDLParser creates a parser targeting the named database. An empty
// schema name selects the default schema; a nil logger discards log
// output.
func NewDDLParser(databaseName, schemaName string, logger *slog.Logger) *DDLParser {
	if schemaName == "" {
		schemaName = model.DefaultSchema
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DDLParser{
		databaseName: databaseName,
		schemaName:   schemaName,
		logger:       logger,
	}
}

// ParseFile reads DDL from a file.
func (p *DDLParser) ParseFile(path string) (*model.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open DDL file %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads DDL statements from r and builds the database model.
func (p *DDLParser) Parse(r io.Reader) (*model.Database, error) {
	statements, err := splitStatements(r)
	if err != nil {
		return nil, err
	}

	db := model.NewDatabase(p.databaseName)
	for _, stmt := range statements {
		lower := strings.ToLower(stmt)
		switch {
		case strings.Contains(lower, "create database"):
			p.logger.Debug("ignoring create database statement")
		case strings.Contains(lower, "create table"), strings.Contains(lower, "create or replace table"):
			p.parseCreateTable(db, stmt)
		case strings.Contains(lower, "alter table"):
			switch {
			case strings.Contains(lower, "primary key"):
				p.addPrimaryKey(db, stmt)
			case strings.Contains(lower, "foreign"):
				p.addForeignKey(db, stmt)
			case strings.Contains(lower, "relationship"):
				p.addRelationship(db, stmt)
			default:
				p.logger.Debug("ignoring alter statement", "statement", stmt)
			}
		default:
			p.logger.Debug("ignoring statement", "statement", stmt)
		}
	}
	return db, nil
}

var whitespaceRe = regexp.MustCompile(`[ \t]+`)

// splitStatements reads lines from r, strips comments, and splits the
// text into semicolon-terminated statements with collapsed whitespace.
func splitStatements(r io.Reader) ([]string, error) {
	var statements []string
	var buffer strings.Builder
	inComment := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := whitespaceRe.ReplaceAllString(strings.TrimSpace(scanner.Text()), " ")
		line, _, _ = strings.Cut(line, "--")
		if strings.HasPrefix(line, "GO") {
			continue
		}

		if inComment {
			_, after, found := strings.Cut(line, "*/")
			if !found {
				continue
			}
			inComment = false
			line = after
		}
		for {
			before, after, found := strings.Cut(line, "/*")
			if !found {
				break
			}
			_, following, closed := strings.Cut(after, "*/")
			if closed {
				line = before + following
				continue
			}
			inComment = true
			line = before
			break
		}

		buffer.WriteString(" ")
		buffer.WriteString(line)
		for strings.Contains(buffer.String(), ";") {
			stmt, rest, _ := strings.Cut(buffer.String(), ";")
			if stmt = strings.TrimSpace(whitespaceRe.ReplaceAllString(stmt, " ")); stmt != "" {
				statements = append(statements, stmt)
			}
			buffer.Reset()
			buffer.WriteString(rest)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading DDL: %w", err)
	}
	return statements, nil
}

var (
	createTableRe = regexp.MustCompile(`(?i)^create (?:or replace )?table `)
	hashKeyRe     = regexp.MustCompile(`(?i)create table.*partition by hash.*\((.*)\) key.*\((.*)\)`)
	primaryKeyRe  = regexp.MustCompile(`(?i)alter table (.*?) .*primary key.*\((.*)\)`)
	alterTableRe  = regexp.MustCompile(`(?i)alter table (.*?) add`)
	namedFKRe     = regexp.MustCompile(`(?i)^(.*) foreign key *\((.*)\) references *(.*) \((.*)\)`)
	anonFKRe      = regexp.MustCompile(`(?i)^foreign key *\((.*)\) references *(.*) \((.*)\)`)
	namedRelRe    = regexp.MustCompile(`(?i)alter table (.*) add relationship (.*) with (.*) as (.*)`)
	anonRelRe     = regexp.MustCompile(`(?i)alter table (.*) add relationship with (.*) as (.*)`)
	constraintRe  = regexp.MustCompile(`(?i)constraint`)
)

// parseCreateTable builds a table from a CREATE TABLE statement,
// including inline primary keys and PARTITION BY HASH shard keys.
func (p *DDLParser) parseCreateTable(db *model.Database, stmt string) {
	// SQL Server style bracket quotes.
	stmt = strings.NewReplacer("[", `"`, "]", `"`).Replace(stmt)

	open := strings.Index(stmt, "(")
	end := matchingParen(stmt, open)
	if open < 0 || end < 0 {
		p.logger.Error("unable to find column list in create table", "statement", stmt)
		return
	}
	name := createTableRe.ReplaceAllString(strings.TrimSpace(stmt[:open]), "")
	name = cleanName(name)
	if name == "" {
		p.logger.Error("unable to extract table name from create table", "statement", stmt)
		return
	}

	table := model.NewTable(name, p.schemaName)
	p.addColumns(table, stmt[open+1:end])
	if strings.Contains(strings.ToLower(stmt), "partition by hash") {
		p.addShardKey(table, stmt)
	}
	db.AddTable(table)
}

// addColumns parses the column list of a CREATE TABLE statement: one
// field per top-level comma, each a column definition or a key clause.
func (p *DDLParser) addColumns(table *model.Table, columnList string) {
	for _, field := range splitFields(columnList) {
		lower := strings.ToLower(field)

		if strings.Contains(lower, "key ") {
			if strings.Contains(lower, "primary") {
				table.SetPrimaryKey(splitNames(between(field, "(", ")")))
			}
			// Other key clauses are constraints, not columns.
			continue
		}

		name, rest := fieldName(field)
		if name == "" {
			p.logger.Error("unable to extract column name", "field", field)
			continue
		}
		column, err := model.NewColumn(name, convertType(fieldType(rest)))
		if err != nil {
			p.logger.Error("skipping column", "field", field, "error", err)
			continue
		}
		table.AddColumn(column)
	}
}

// matchingParen returns the index of the parenthesis closing the one
// at open, or -1.
func matchingParen(s string, open int) int {
	if open < 0 {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitFields splits a column list on commas outside parentheses.
func splitFields(columnList string) []string {
	var fields []string
	var field strings.Builder
	depth := 0
	for _, c := range columnList {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				fields = append(fields, strings.TrimSpace(field.String()))
				field.Reset()
				continue
			}
		}
		field.WriteRune(c)
	}
	if f := strings.TrimSpace(field.String()); f != "" {
		fields = append(fields, f)
	}
	return fields
}

// fieldName extracts the leading column name, quoted or bare, and
// returns it with the remainder of the field.
func fieldName(field string) (string, string) {
	field = strings.TrimSpace(field)
	if field == "" {
		return "", ""
	}
	if q := field[0]; q == '"' || q == '\'' || q == '`' {
		end := strings.IndexByte(field[1:], q)
		if end < 0 {
			return "", ""
		}
		return field[1 : end+1], field[end+2:]
	}
	name, rest, _ := strings.Cut(field, " ")
	return name, rest
}

// fieldType extracts the declared type from the remainder of a column
// definition: up to the closing parenthesis for parameterized types,
// else the first token.
func fieldType(rest string) string {
	rest = strings.TrimSpace(rest)
	if open, end := strings.Index(rest, "("), strings.Index(rest, ")"); open >= 0 && open < end {
		return rest[:end+1]
	}
	end := len(rest)
	if i := strings.IndexAny(rest, " ,"); i >= 0 {
		end = i
	}
	return rest[:end]
}

// convertType maps a source database type to a model column type,
// normalizing vendor-specific types. Unmapped types become UNKNOWN so
// validation can flag them instead of the parse failing.
func convertType(dataType string) string {
	t := strings.ToLower(dataType)
	switch {
	case strings.Contains(t, "rowversion"), strings.Contains(t, "serial"):
		return model.TypeInt
	case strings.Contains(t, "uniqueidentifier"), strings.Contains(t, "sysname"):
		return model.TypeVarchar + "(0)"
	case strings.Contains(t, "bigint"):
		return model.TypeBigint
	case strings.Contains(t, "int"):
		return model.TypeInt
	case strings.Contains(t, "bit"), strings.Contains(t, "bool"):
		return model.TypeBool
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"):
		return model.TypeUnknown
	case strings.Contains(t, "number"):
		return convertNumberType(t)
	case strings.Contains(t, "decimal"), strings.Contains(t, "numeric"),
		strings.Contains(t, "float"), strings.Contains(t, "double"),
		strings.Contains(t, "money"), strings.Contains(t, "real"):
		return model.TypeDouble
	case strings.Contains(t, "datetime"), strings.Contains(t, "timestamp"):
		return model.TypeDatetime
	case strings.Contains(t, "time"):
		return model.TypeTime
	case strings.Contains(t, "date"):
		return model.TypeDate
	case strings.Contains(t, "text"), strings.Contains(t, "long"),
		strings.Contains(t, "enum"), strings.Contains(t, "xml"):
		return model.TypeVarchar + "(0)"
	case strings.Contains(t, "char"):
		if params := between(dataType, "(", ")"); params != "" {
			return model.TypeVarchar + "(" + params + ")"
		}
		return model.TypeVarchar + "(0)"
	}
	return model.TypeUnknown
}

// convertNumberType maps Oracle NUMBER(p,s) types: a zero scale is an
// integer sized by its precision, anything else is a DOUBLE.
func convertNumberType(t string) string {
	params := between(t, "(", ")")
	if params == "" {
		return model.TypeBigint
	}
	precision, scale, found := strings.Cut(params, ",")
	if !found {
		return model.TypeInt
	}
	if strings.TrimSpace(scale) != "0" {
		return model.TypeDouble
	}
	precision = strings.TrimSpace(precision)
	if precision == "*" {
		return model.TypeBigint
	}
	if p, err := strconv.Atoi(precision); err == nil && p > 9 {
		return model.TypeBigint
	}
	return model.TypeInt
}

// addShardKey extracts a PARTITION BY HASH clause from a CREATE TABLE
// statement.
func (p *DDLParser) addShardKey(table *model.Table, stmt string) {
	matches := hashKeyRe.FindStringSubmatch(stmt)
	if matches == nil {
		p.logger.Error("unable to extract hash key", "statement", stmt)
		return
	}
	shards, err := strconv.Atoi(strings.TrimSpace(matches[1]))
	if err != nil {
		p.logger.Error("bad shard count in hash key", "statement", stmt, "error", err)
		return
	}
	key, err := model.NewShardKey(splitNames(matches[2]), shards)
	if err != nil {
		p.logger.Error("bad hash key", "statement", stmt, "error", err)
		return
	}
	table.ShardKey = key
}

// addPrimaryKey handles ALTER TABLE ... PRIMARY KEY (...) statements.
func (p *DDLParser) addPrimaryKey(db *model.Database, stmt string) {
	matches := primaryKeyRe.FindStringSubmatch(stmt)
	if matches == nil {
		p.logger.Error("unable to extract primary key", "statement", stmt)
		return
	}
	name := cleanName(matches[1])
	table := db.Table(name)
	if table == nil {
		p.logger.Error("primary key for table not in the database", "table", name)
		return
	}
	table.SetPrimaryKey(splitNames(matches[2]))
}

// addForeignKey handles ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY
// statements. A single statement may add several constraints.
func (p *DDLParser) addForeignKey(db *model.Database, stmt string) {
	tableMatch := alterTableRe.FindStringSubmatch(stmt)
	if tableMatch == nil {
		p.logger.Error("unable to extract table from foreign key", "statement", stmt)
		return
	}
	name := cleanName(tableMatch[1])
	table := db.Table(name)
	if table == nil {
		p.logger.Error("foreign key for table not in the database", "table", name)
		return
	}

	for _, constraint := range constraintRe.Split(stmt, -1)[1:] {
		constraint = strings.Trim(strings.TrimSpace(constraint), ",;")
		constraint = strings.TrimSpace(constraint)

		var fkName string
		var fromKeys, toKeys []string
		var toTable string
		if matches := namedFKRe.FindStringSubmatch(constraint); matches != nil {
			fkName = cleanName(matches[1])
			fromKeys = splitNames(matches[2])
			toTable = cleanName(matches[3])
			toKeys = splitNames(matches[4])
		} else if matches := anonFKRe.FindStringSubmatch(constraint); matches != nil {
			fromKeys = splitNames(matches[1])
			toTable = cleanName(matches[2])
			toKeys = splitNames(matches[3])
		} else {
			p.logger.Error("unable to extract foreign key", "statement", stmt)
			return
		}

		if _, err := table.NewForeignKey(fromKeys, toTable, toKeys, fkName); err != nil {
			p.logger.Error("bad foreign key", "statement", stmt, "error", err)
		}
	}
}

// addRelationship handles ALTER TABLE ... ADD RELATIONSHIP ... WITH
// ... AS ... statements, with or without a relationship name.
func (p *DDLParser) addRelationship(db *model.Database, stmt string) {
	var tableName, relName, toTable, conditions string
	if matches := namedRelRe.FindStringSubmatch(stmt); matches != nil {
		tableName = cleanName(matches[1])
		relName = cleanName(matches[2])
		toTable = cleanName(matches[3])
		conditions = strings.TrimSpace(matches[4])
	} else if matches := anonRelRe.FindStringSubmatch(stmt); matches != nil {
		tableName = cleanName(matches[1])
		toTable = cleanName(matches[2])
		conditions = strings.TrimSpace(matches[3])
	} else {
		p.logger.Error("unable to extract relationship", "statement", stmt)
		return
	}

	table := db.Table(tableName)
	if table == nil {
		p.logger.Error("relationship for table not in the database", "table", tableName)
		return
	}
	if _, err := table.NewRelationship(toTable, conditions, relName); err != nil {
		p.logger.Error("bad relationship", "statement", stmt, "error", err)
	}
}

// cleanName strips quoting and any database or schema qualifiers from
// an identifier.
func cleanName(name string) string {
	parts := strings.Split(name, ".")
	name = strings.TrimSpace(parts[len(parts)-1])
	return strings.NewReplacer(`"`, "", "'", "", "`", "", "[", "", "]", "", "\t", "").Replace(name)
}

// splitNames splits a comma-separated identifier list, cleaning each
// entry.
func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if n := cleanName(name); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// between returns the text between the first open delimiter and the
// last close delimiter, or "" when absent.
func between(s, open, close string) string {
	start := strings.Index(s, open)
	end := strings.LastIndex(s, close)
	if start < 0 || end <= start {
		return ""
	}
	return s[start+1 : end]
}
