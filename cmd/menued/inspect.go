package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mchmarny/menued/pkg/menu"
	"github.com/mchmarny/menued/pkg/seed"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	urlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	treeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that a seed file holds a valid menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			flat, err := menu.Flatten(m.Items)
			if err != nil {
				return err
			}

			depth := 0
			for _, it := range flat {
				depth = max(depth, it.Level+1)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d nodes, %d roots, depth %d\n",
				args[0], len(flat), len(m.Items), depth)
			return err
		},
	}
}

func (a *app) newFlattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten FILE",
		Short: "Print a seed file as the flat list in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			flat, err := menu.Flatten(m.Items)
			if err != nil {
				return err
			}
			if flat == nil {
				flat = []menu.FlatItem{}
			}
			return printJSON(cmd.OutOrStdout(), flat)
		},
	}
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print a seed file as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render(m))
			return err
		},
	}
}

func (a *app) newProjectCmd() *cobra.Command {
	var (
		active, over string
		offset       float64
		indentation  float64
		apply        bool
	)

	cmd := &cobra.Command{
		Use:   "project FILE",
		Short: "Compute where a dragged item would land",
		Long: "project computes the level and parent an item would get when dragged over\n" +
			"another item with the given horizontal offset, and optionally applies the drop.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			flat, err := menu.Flatten(m.Items)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("indentation") {
				indentation = a.cfg.Indentation
			}
			activeID := resolve(flat, active)
			overID := resolve(flat, over)
			if over == "" {
				overID = activeID
			}

			p, err := menu.Project(flat, activeID, overID, offset, indentation)
			if err != nil {
				return err
			}
			if !apply {
				return printJSON(cmd.OutOrStdout(), p)
			}

			out, err := menu.ApplyDrag(m.Items, activeID, overID, &p)
			if err != nil {
				return err
			}
			m.Items = out
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render(m))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&active, "active", "", "id of the dragged item")
	flags.StringVar(&over, "over", "", "id of the item under the pointer (default: the dragged item)")
	flags.Float64Var(&offset, "offset", 0, "horizontal drag offset in pixels")
	flags.Float64Var(&indentation, "indentation", menu.DefaultIndentation, "pixel width of one nesting level")
	flags.BoolVar(&apply, "apply", false, "apply the drop and print the resulting tree")
	_ = cmd.MarkFlagRequired("active")

	return cmd
}

// resolve finds the item whose id prints as raw. Unknown ids come back as
// string ids so lookups report them as not found.
func resolve(items []menu.FlatItem, raw string) menu.ID {
	for _, it := range items {
		if it.ID.String() == raw {
			return it.ID
		}
	}
	return menu.StringID(raw)
}

func render(m *menu.Menu) string {
	title := m.Title
	if title == "" {
		title = appName
	}

	root := tree.Root(titleStyle.Render(title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(treeStyle)

	branches := make(map[menu.ID]*tree.Tree)
	menu.Walk(m.Items, func(n *menu.Node, parent *menu.Node) bool {
		target := root
		if parent != nil {
			target = branches[parent.ID]
		}

		item := labelStyle.Render(n.Label) + " " + idStyle.Render("["+n.ID.String()+"]")
		if n.URL != "" {
			item += " " + urlStyle.Render(n.URL)
		}

		if len(n.Children) == 0 {
			target.Child(item)
			return true
		}
		branch := tree.Root(item).
			Enumerator(tree.RoundedEnumerator).
			EnumeratorStyle(treeStyle)
		branches[n.ID] = branch
		target.Child(branch)
		return true
	})

	return root.String()
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
