package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/stepsolver/internal/expr"
	yaml "gopkg.in/yaml.v2"
)

// report is what a run writes to its output.
type report struct {
	RunID     string             `json:"run_id" yaml:"run_id" toml:"run_id"`
	Variables map[string]float64 `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty"`
	Order     []string           `json:"order,omitempty" yaml:"order,omitempty" toml:"order,omitempty"`
	Redefined []string           `json:"redefined,omitempty" yaml:"redefined,omitempty" toml:"redefined,omitempty"`
	Issues    []string           `json:"issues,omitempty" yaml:"issues,omitempty" toml:"issues,omitempty"`
	Unsolved  []unsolvedStep     `json:"unsolved,omitempty" yaml:"unsolved,omitempty" toml:"unsolved,omitempty"`
}

type unsolvedStep struct {
	Equation  string   `json:"equation" yaml:"equation" toml:"equation"`
	Reason    string   `json:"reason" yaml:"reason" toml:"reason"`
	Variables []string `json:"variables" yaml:"variables" toml:"variables"`
}

func (a *App) newReport() *report {
	return &report{RunID: a.runID}
}

func (a *App) write(rep *report) error {
	var err error
	switch a.config.OutputFormat {
	case OutputJSON:
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	case OutputYAML:
		var out []byte
		if out, err = yaml.Marshal(rep); err == nil {
			_, err = a.outW.Write(out)
		}
	case OutputTOML:
		err = toml.NewEncoder(a.outW).Encode(rep)
	default:
		err = writeText(a.outW, rep)
	}
	if err != nil {
		return fmt.Errorf("writing %s output: %w", a.config.OutputFormat, err)
	}
	return nil
}

// writeText writes rep for humans. The run id is left to the logs.
func writeText(w io.Writer, rep *report) error {
	env := expr.NewEnvironment(rep.Variables)
	for _, name := range env.Names() {
		v, _ := env.Get(name)
		if _, err := fmt.Fprintf(w, "%s = %s\n", name, strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			return err
		}
	}
	for i, eq := range rep.Order {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, eq); err != nil {
			return err
		}
	}
	for _, name := range rep.Redefined {
		if _, err := fmt.Fprintf(w, "redefined: %s\n", name); err != nil {
			return err
		}
	}
	for _, issue := range rep.Issues {
		if _, err := fmt.Fprintf(w, "issue: %s\n", issue); err != nil {
			return err
		}
	}
	for _, u := range rep.Unsolved {
		if _, err := fmt.Fprintf(w, "unsolved: %s (%s: %s)\n", u.Equation, u.Reason, strings.Join(u.Variables, ", ")); err != nil {
			return err
		}
	}
	return nil
}
