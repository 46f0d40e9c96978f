// Command dagframe plans task-graph execution order without running it:
// given a graph fragment, it prints the priorities an executor would pull
// ready nodes in. It also inspects and clears the plan-fragment cache. It
// has no join, merge or concat subcommand; those planners are library
// calls in pkg/relplan.
package main

import "github.com/dagframe/dagframe/cmd/dagframe/cmd"

func main() {
	cmd.Execute()
}
