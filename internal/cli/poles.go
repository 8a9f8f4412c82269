package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fay3V/601/internal/compiler"
	"github.com/Fay3V/601/internal/sf"
)

// PolesOptions holds flags for the poles command.
type PolesOptions struct {
	*RootOptions
	Model string // single model only
}

// PoleInfo describes one pole.
type PoleInfo struct {
	Re        float64 `json:"re"`
	Im        float64 `json:"im"`
	Magnitude float64 `json:"magnitude"`

	// Period is the oscillation period in ticks; nil for a non-negative
	// real pole, which does not oscillate.
	Period *float64 `json:"period,omitempty"`
}

// ModelPoles is the pole analysis of one model.
type ModelPoles struct {
	Name     string     `json:"name"`
	System   string     `json:"system"`
	Poles    []PoleInfo `json:"poles"`
	Dominant *PoleInfo  `json:"dominant,omitempty"`
	Stable   bool       `json:"stable"`
}

// NewPolesCommand creates the poles command.
func NewPolesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PolesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "poles <models-dir>",
		Short: "Report the poles of CUE system models",
		Long: `Compile the CUE system models in a directory and report, for each one,
its system function, its poles, the dominant pole and whether the system is
stable.

Examples:
  lti poles ./models
  lti poles ./models --model closed
  lti poles ./models --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoles(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Model, "model", "", "report this model only")

	return cmd
}

func runPoles(opts *PolesOptions, dir string, cmd *cobra.Command) error {
	models, err := compiler.LoadModels(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load models", err)
	}

	if opts.Model != "" {
		m, ok := compiler.Find(models, opts.Model)
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown model %q", opts.Model))
		}
		models = []compiler.Model{m}
	}

	report := make([]ModelPoles, len(models))
	for i, m := range models {
		report[i] = analysePoles(m)
	}

	return opts.formatter(cmd).Success(report, func(w io.Writer) {
		for _, m := range report {
			writePolesText(w, m)
		}
	})
}

func analysePoles(m compiler.Model) ModelPoles {
	poles := m.System.Poles()
	out := ModelPoles{
		Name:   m.Name,
		System: m.System.String(),
		Poles:  make([]PoleInfo, len(poles)),
		Stable: poles.Stable(),
	}
	for i, p := range poles {
		out.Poles[i] = poleInfo(p)
	}
	if d, ok := poles.Dominant(); ok {
		info := poleInfo(d)
		out.Dominant = &info
	}
	return out
}

func poleInfo(p sf.Pole) PoleInfo {
	info := PoleInfo{Re: p.Re, Im: p.Im, Magnitude: p.Magnitude()}
	if period := p.Period(); !math.IsInf(period, 0) {
		info.Period = &period
	}
	return info
}

func writePolesText(w io.Writer, m ModelPoles) {
	fmt.Fprintf(w, "%s: %s\n", m.Name, m.System)
	if len(m.Poles) == 0 {
		fmt.Fprintln(w, "  poles:    none")
	} else {
		parts := make([]string, len(m.Poles))
		for i, p := range m.Poles {
			parts[i] = sf.Pole{Re: p.Re, Im: p.Im}.String()
		}
		fmt.Fprintf(w, "  poles:    [%s]\n", strings.Join(parts, ", "))
	}
	if m.Dominant != nil {
		d := m.Dominant
		fmt.Fprintf(w, "  dominant: %s (|p| = %.6g", sf.Pole{Re: d.Re, Im: d.Im}, d.Magnitude)
		if d.Period != nil {
			fmt.Fprintf(w, ", period %.6g ticks", *d.Period)
		}
		fmt.Fprintln(w, ")")
	}
	fmt.Fprintf(w, "  stable:   %t\n", m.Stable)
}

func formatPoleList(ps sf.Poles) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
