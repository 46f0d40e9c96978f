package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dagframe/dagframe/pkg/compression"
	"github.com/dagframe/dagframe/pkg/planrepo"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the plan-fragment cache",
}

var cacheInspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Print the cached graph fragment for a tokenize digest, if present",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openPlanCache()
		if err != nil {
			return err
		}

		payload, ok, err := repo.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no cache entry for that token")
			return nil
		}
		fmt.Println(string(payload))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Purge expired entries from the plan cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openPlanCache()
		if err != nil {
			return err
		}
		n, err := repo.Purge(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("purged %d expired entr%s\n", n, plural(n))
		return nil
	},
}

func plural(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func openPlanCache() (planrepo.PlanCacheRepository, error) {
	c := GetConfig().Cache
	db, err := planrepo.NewGormDB(planrepo.DBConfig{
		Backend:  c.Backend,
		DSN:      c.DSN,
		MaxConns: c.MaxConns,
	})
	if err != nil {
		return nil, err
	}

	var compressor compression.Compressor = compression.NewNoOpCompressor()
	if c.Compression {
		compressor = compression.Default()
	}
	return planrepo.NewGormPlanCacheRepository(db, compressor, nil), nil
}

func init() {
	cacheCmd.AddCommand(cacheInspectCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
