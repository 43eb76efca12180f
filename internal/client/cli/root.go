package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the gophchat command tree.
func NewRootCmd() *cobra.Command {
	a := &App{}
	gf := &globalFlags{}

	root := &cobra.Command{
		Use:   "gophchat",
		Short: "Chat with an AI assistant from the terminal",
		Long: `gophchat sends questions to a GophChat server. Messages sent within
the server's active window continue the current thread; later ones start a
new thread.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, gf)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&gf.configPath, "config", "c", "", "JSON config file path")
	pf.StringVarP(&gf.server, "server", "a", "", "server gRPC address (host:port)")
	pf.StringVar(&gf.sessionDir, "session-dir", "", "directory holding the session file")
	pf.DurationVar(&gf.timeout, "timeout", 2*time.Minute, "per-request timeout")

	root.AddCommand(
		newPingCmd(a),
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAskCmd(a),
		newChatCmd(a),
		newThreadsCmd(a),
		newExportCmd(a),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
