package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagframe/dagframe/pkg/graph"
	"github.com/dagframe/dagframe/pkg/order"
)

// orderNode is the JSON-file representation of one graph node: a literal
// value, or a task call referencing other nodes' keys by name.
type orderNode struct {
	Key     string   `json:"key"`
	Literal any      `json:"literal,omitempty"`
	Fn      string   `json:"fn,omitempty"`
	Args    []string `json:"args,omitempty"`
}

type orderFile struct {
	Nodes []orderNode `json:"nodes"`
}

var orderCmd = &cobra.Command{
	Use:   "order <graph.json>",
	Short: "Compute a deterministic DFS execution priority for every node in a graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read graph file: %w", err)
		}

		var file orderFile
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse graph file: %w", err)
		}

		g, err := buildGraph(file)
		if err != nil {
			return err
		}

		priorities := order.DfsOrder(g)
		out := make(map[string]int, len(priorities))
		for k, p := range priorities {
			out[k.String()] = p
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func buildGraph(file orderFile) (*graph.Graph, error) {
	fragment := make(graph.Fragment, len(file.Nodes))
	for _, n := range file.Nodes {
		key := graph.Atom(n.Key)
		if n.Fn == "" {
			fragment[key] = graph.Literal{Value: n.Literal}
			continue
		}
		argv := make([]graph.Arg, len(n.Args))
		for i, a := range n.Args {
			argv[i] = graph.Ref(graph.Atom(a))
		}
		fragment[key] = graph.Task{Fn: n.Fn, Args: argv}
	}
	return graph.Build(fragment)
}

func init() {
	rootCmd.AddCommand(orderCmd)
}
