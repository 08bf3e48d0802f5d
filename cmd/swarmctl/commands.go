package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var (
		taskType string
		needData bool
		needAnal bool
		needExec bool
	)

	cmd := &cobra.Command{
		Use:   "submit <description>",
		Short: "Submit a task to the swarm",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"description":        strings.Join(args, " "),
				"type":               taskType,
				"requires_data":      needData,
				"requires_analysis":  needAnal,
				"requires_execution": needExec,
			}
			var resp map[string]any
			if err := apiCall(http.MethodPost, "/api/v1/tasks", body, &resp); err != nil {
				return err
			}
			fmt.Printf("submitted: %v\n", resp["task_id"])
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "type", "", "task type hint")
	cmd.Flags().BoolVar(&needData, "data", false, "require data gathering")
	cmd.Flags().BoolVar(&needAnal, "analysis", false, "require analysis")
	cmd.Flags().BoolVar(&needExec, "execution", false, "require execution")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id>",
		Short: "Show a task's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp map[string]any
			if err := apiCall(http.MethodGet, "/api/v1/tasks/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show swarm metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp map[string]any
			if err := apiCall(http.MethodGet, "/api/v1/metrics", nil, &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}

func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List registered and connected agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp map[string]any
			if err := apiCall(http.MethodGet, "/api/v1/agents", nil, &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show recent swarm activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp any
			path := fmt.Sprintf("/api/v1/activities?limit=%d", limit)
			if err := apiCall(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max entries to show")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream live swarm activity from the dashboard socket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := dashboardURL(serverAddr)
			if err != nil {
				return err
			}

			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
			}
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			defer conn.Close()

			go func() {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				<-quit
				conn.Close()
			}()

			fmt.Fprintln(os.Stderr, "watching swarm (ctrl-c to stop)")
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return nil
				}
				var pretty bytes.Buffer
				if json.Indent(&pretty, data, "", "  ") == nil {
					fmt.Println(pretty.String())
				} else {
					fmt.Println(string(data))
				}
			}
		},
	}
}

func dashboardURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("bad server url %q: %w", base, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/dashboard"
	return u.String(), nil
}

func apiCall(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimRight(serverAddr, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if adminToken != "" {
		req.Header.Set("X-Admin-Token", adminToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
