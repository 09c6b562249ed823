package loader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schemalint/schemalint/pkg/model"
)

// worksheetDoc mirrors the ThoughtSpot worksheet YAML layout. The
// document root is a single "worksheet" mapping.
type worksheetDoc struct {
	Worksheet struct {
		Name        string            `yaml:"name"`
		Description string            `yaml:"description"`
		Properties  map[string]string `yaml:"properties"`
		Tables      []struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		} `yaml:"tables"`
		Joins []struct {
			Name        string `yaml:"name"`
			Source      string `yaml:"source"`
			Destination string `yaml:"destination"`
			Type        string `yaml:"type"`
			IsOneToOne  bool   `yaml:"is_one_to_one"`
		} `yaml:"joins"`
		TablePaths []struct {
			ID       string `yaml:"id"`
			Table    string `yaml:"table"`
			JoinPath []struct {
				Join []string `yaml:"join"`
			} `yaml:"join_path"`
		} `yaml:"table_paths"`
		Formulas []struct {
			Name string `yaml:"name"`
			Expr string `yaml:"expr"`
			ID   string `yaml:"id"`
		} `yaml:"formulas"`
		WorksheetColumns []struct {
			Name       string            `yaml:"name"`
			ColumnID   string            `yaml:"column_id"`
			FormulaID  string            `yaml:"formula_id"`
			Properties map[string]string `yaml:"properties"`
		} `yaml:"worksheet_columns"`
	} `yaml:"worksheet"`
}

// ReadWorksheetFile builds a worksheet from a YAML file.
func ReadWorksheetFile(path string) (*model.Worksheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open worksheet file %s: %w", path, err)
	}
	defer f.Close()
	return ReadWorksheet(f)
}

// ReadWorksheet builds a worksheet from a YAML document. Table
// references default to physical tables; a column with a formula_id
// instead of a column_id is a formula column.
func ReadWorksheet(r io.Reader) (*model.Worksheet, error) {
	var doc worksheetDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode worksheet YAML: %w", err)
	}
	spec := doc.Worksheet
	if spec.Name == "" {
		return nil, fmt.Errorf("worksheet YAML has no name")
	}

	ws := model.NewWorksheet(spec.Name, spec.Description, spec.Properties)

	for _, t := range spec.Tables {
		tableType := t.Type
		if tableType == "" {
			tableType = model.WorksheetTablePhysical
		}
		ws.AddTable(model.WorksheetTable{Name: t.Name, Type: tableType})
	}

	for _, j := range spec.Joins {
		ws.AddJoin(model.WorksheetJoin{
			Name:        j.Name,
			Source:      j.Source,
			Destination: j.Destination,
			Type:        j.Type,
			IsOneToOne:  j.IsOneToOne,
		})
	}

	for _, tp := range spec.TablePaths {
		var joins []string
		for _, jp := range tp.JoinPath {
			joins = append(joins, jp.Join...)
		}
		ws.AddTablePath(model.WorksheetTablePath{
			PathID:    tp.ID,
			Table:     tp.Table,
			JoinPaths: joins,
		})
	}

	for _, f := range spec.Formulas {
		ws.AddFormula(model.WorksheetFormula{
			Name:       f.Name,
			Expression: f.Expr,
			FormulaID:  f.ID,
		})
	}

	for _, c := range spec.WorksheetColumns {
		id := c.ColumnID
		isFormula := false
		if id == "" && c.FormulaID != "" {
			id = c.FormulaID
			isFormula = true
		}
		ws.AddColumn(model.WorksheetColumn{
			Name:       c.Name,
			ID:         id,
			Properties: c.Properties,
			IsFormula:  isFormula,
		})
	}

	return ws, nil
}
