package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitalia-app/vitalia/internal/server"
	"github.com/vitalia-app/vitalia/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vitalia API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")

		svc, db, err := newDailyService(nil)
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(svc, db,
			viper.GetString("server.auth_user"),
			viper.GetString("server.auth_pass"))

		utils.Log.Infof("listening on %s", listenAddr)
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
}
