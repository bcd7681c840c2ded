package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MarouaneBouaricha/ehamm/internal/report"
	"github.com/MarouaneBouaricha/ehamm/internal/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringP("manager", "m", "localhost:5555", "Server to talk to")
	runsCmd.Flags().Bool("local", false, "read the configured report store instead of a server")
	runsCmd.Flags().String("id", "", "show the full report of one run")
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Runs command to list finished simulations.",
	Long: `ehamm runs command.

The runs command lists the finished simulations of a running server, or of
the local persistent store with --local.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := cmd.Flags().GetString("manager")
		if err != nil {
			return err
		}
		local, err := cmd.Flags().GetBool("local")
		if err != nil {
			return err
		}
		id, err := cmd.Flags().GetString("id")
		if err != nil {
			return err
		}

		var reports []*report.Report
		if local {
			reports, err = localReports()
		} else {
			reports, err = remoteReports(manager, id)
		}
		if err != nil {
			return err
		}

		if id != "" {
			for _, r := range reports {
				if r.ID.String() == id {
					return report.Print(cmd.OutOrStdout(), r, false)
				}
			}
			return errors.Wrapf(store.ErrNotFound, "run %s", id)
		}
		return report.PrintList(cmd.OutOrStdout(), reports)
	},
}

func localReports() ([]*report.Report, error) {
	if cfg.Store.Type != store.PersistentType {
		return nil, errors.Errorf("--local reads the %s store, but store.type is %q", store.PersistentType, cfg.Store.Type)
	}
	db, err := store.New(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	list, err := db.List()
	if err != nil {
		return nil, err
	}
	return list.([]*report.Report), nil
}

func remoteReports(manager, id string) ([]*report.Report, error) {
	url := fmt.Sprintf("http://%s/simulations", manager)
	if id != "" {
		url = fmt.Sprintf("%s/%s", url, id)
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", manager)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("request to %s failed with status %d", url, resp.StatusCode)
	}

	d := json.NewDecoder(resp.Body)
	if id != "" {
		var r report.Report
		if err := d.Decode(&r); err != nil {
			return nil, errors.Wrap(err, "decoding report")
		}
		r.Restore()
		return []*report.Report{&r}, nil
	}

	var reports []*report.Report
	if err := d.Decode(&reports); err != nil {
		return nil, errors.Wrap(err, "decoding reports")
	}
	for _, r := range reports {
		r.Restore()
	}
	return reports, nil
}
