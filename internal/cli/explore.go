package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statmap/pkg/classify"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/palette"
	"github.com/matzehuels/statmap/pkg/source"
)

// Bounds of the interactive class count.
const (
	minExploreClasses = 2
	maxExploreClasses = 12
)

// exploreSchemes are the schemes cycled with "s".
var exploreSchemes = []string{palette.DefaultScheme, "YlOrRd", "Blues", "Greens", "Purples", "RdPu"}

// exploreMethods are the methods cycled with "m". Threshold needs explicit
// breaks and is left out.
var exploreMethods = []classify.Method{classify.Quantile, classify.EqualInterval}

// =============================================================================
// ExploreModel - Interactive classification preview
// =============================================================================

// ExploreModel is the bubbletea model of the explore command.
type ExploreModel struct {
	Dataset *source.Dataset
	Method  int
	Classes int
	Scheme  int
	Nice    bool
	Cursor  int

	rows []classRow
	err  error
}

// NewExploreModel creates a model with a quantile classification.
func NewExploreModel(ds *source.Dataset, classes int) ExploreModel {
	m := ExploreModel{Dataset: ds, Classes: max(minExploreClasses, min(classes, maxExploreClasses))}
	m.reclassify()
	return m
}

// Config returns the classification currently shown.
func (m ExploreModel) Config() classify.Config {
	return classify.Config{
		Method:     exploreMethods[m.Method],
		ClassCount: m.Classes,
		Nice:       m.Nice,
	}
}

func (m *ExploreModel) reclassify() {
	m.rows, m.err = classRows(m.Dataset.Index, m.Config(), exploreSchemes[m.Scheme])
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(0, len(m.rows)-1)
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.rows)-1 {
			m.Cursor++
		}
		return m, nil
	case "m":
		m.Method = (m.Method + 1) % len(exploreMethods)
	case "s":
		m.Scheme = (m.Scheme + 1) % len(exploreSchemes)
	case "n":
		m.Nice = !m.Nice
	case "+", "=":
		if m.Classes < maxExploreClasses {
			m.Classes++
		}
	case "-":
		if m.Classes > minExploreClasses {
			m.Classes--
		}
	default:
		return m, nil
	}
	m.reclassify()
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	title := m.Dataset.Label
	if title == "" {
		title = m.Dataset.Source
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("m method  +/- classes  s scheme  n nice  ↑/↓ move  q quit"))
	b.WriteString("\n\n")

	cfg := m.Config()
	nice := ""
	if m.Nice && cfg.Method == classify.EqualInterval {
		nice = " (nice)"
	}
	fmt.Fprintf(&b, "%s %s%s  %s %s  %s %s\n\n",
		StyleDim.Render("method"), StyleHighlight.Render(string(cfg.Method)), nice,
		StyleDim.Render("classes"), StyleNumber.Render(fmt.Sprint(m.Classes)),
		StyleDim.Render("scheme"), StyleValue.Render(exploreSchemes[m.Scheme]))

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err) + "\n")
		return b.String()
	}
	b.WriteString(classTable(m.rows, m.Cursor).Render())
	b.WriteString("\n")
	if len(m.rows) > 0 {
		r := m.rows[m.Cursor]
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %s class %d: %s to %s, %s",
			iconCursor, r.Class, formatNumber(r.From), formatNumber(r.To), r.Color)))
		b.WriteString("\n")
	}
	return b.String()
}

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		ds      datasetFlags
		classes int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore <dataset>",
		Short: "Interactively try classification methods on a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := ds.spec(args[0])
			if err := spec.Validate(); err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Loading "+spec.String()+"...")
			spinner.Start()
			data, err := runner.Loader.Load(cmd.Context(), spec)
			spinner.Stop()
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewExploreModel(data, classes), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			cfg := final.(ExploreModel).Config()
			printNextStep("Use in a map config", fmt.Sprintf("classification_method = %q, class_count = %d", cfg.Method, cfg.ClassCount))
			return nil
		},
	}

	ds.register(cmd)
	cmd.Flags().IntVarP(&classes, "classes", "k", 5, "initial number of classes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
