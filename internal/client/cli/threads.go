package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"github.com/spf13/cobra"
)

func newThreadsCmd(a *App) *cobra.Command {
	var (
		users  string
		req    pb.ListThreadsRequest
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List threads, most recently active first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ids, err := parseUserIDs(users)
			if err != nil {
				return err
			}
			req.UserIDs = ids
			return a.listThreads(cmd, &req, asJSON)
		},
	}
	cmd.Flags().StringVar(&users, "users", "", "comma separated user ids (admins only, except your own)")
	cmd.Flags().StringVar(&req.Sort, "sort", "desc", "exchange order within a thread: asc | desc")
	cmd.Flags().IntVar(&req.Page, "page", 1, "page number, from 1")
	cmd.Flags().IntVar(&req.Limit, "limit", 10, "threads per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func parseUserIDs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *App) listThreads(cmd *cobra.Command, req *pb.ListThreadsRequest, asJSON bool) error {
	ctx, cancel := a.requestContext(cmd)
	defer cancel()

	threads, err := a.client.ListThreads(ctx, req)
	if err != nil {
		return explain(err)
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(threads)
	}
	printThreads(a.out, threads)
	return nil
}

func printThreads(w io.Writer, threads []pb.Thread) {
	if len(threads) == 0 {
		fmt.Fprintln(w, "No threads.")
		return
	}
	for _, t := range threads {
		fmt.Fprintf(w, "Thread %d (user %d, last active %s, %d messages)\n",
			t.ID, t.UserID, t.LastActivityAt.Local().Format(time.DateTime), len(t.Exchanges))
		for _, e := range t.Exchanges {
			fmt.Fprintf(w, "  Q: %s\n  A: %s\n", e.Question, e.Answer)
		}
	}
}
