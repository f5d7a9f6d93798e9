package main

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/Rech1n/Kitsune/internal/streams"
	"github.com/Rech1n/Kitsune/internal/streams/yamlseed"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type clientFactory func() *adminClient

func newAddCmd(clientFor clientFactory) *cobra.Command {
	var (
		animeID  string
		episode  int
		quality  string
		language string
		serverID string
	)

	cmd := &cobra.Command{
		Use:   "add <stream-url>",
		Short: "Register a custom stream for an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := clientFor().do(cmd.Context(), http.MethodPost, "/api/admin/streams", nil, map[string]any{
				"animeId":       animeID,
				"episodeNumber": episode,
				"streamUrl":     args[0],
				"quality":       quality,
				"language":      language,
				"serverId":      serverID,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, payload["stream"])
		},
	}

	cmd.Flags().StringVarP(&animeID, "anime", "a", "", "Anime id")
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Episode number")
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Resolution (480p|720p|1080p|1440p|4K)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language type (sub|dub|raw)")
	cmd.Flags().StringVarP(&serverID, "server", "s", "", "Server id (default "+streams.DefaultServerID+")")
	lo.Must0(cmd.MarkFlagRequired("anime"))
	lo.Must0(cmd.MarkFlagRequired("episode"))
	return cmd
}

// newBulkAddCmd pushes a seed file to the api: servers first, then every
// stream in a single bulk request.
func newBulkAddCmd(clientFor clientFactory) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "bulk-add",
		Short: "Register the servers and streams of a YAML seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, err := yamlseed.LoadFile(file)
			if err != nil {
				return fmt.Errorf("load %s: %w", file, err)
			}
			reqs, err := seed.AddRequests()
			if err != nil {
				return err
			}

			client := clientFor()
			for _, server := range seed.Servers {
				if _, err := client.do(cmd.Context(), http.MethodPost, "/api/admin/servers", nil, map[string]any{
					"id":       server.ID,
					"name":     server.Name,
					"baseUrl":  server.BaseURL,
					"isActive": server.Active,
					"priority": server.Priority,
				}); err != nil {
					return fmt.Errorf("register server %s: %w", server.ID, err)
				}
			}

			if len(reqs) == 0 {
				cmd.Printf("registered %d servers, no streams in %s\n", len(seed.Servers), file)
				return nil
			}

			items := lo.Map(reqs, func(req streams.AddRequest, _ int) map[string]any {
				return map[string]any{
					"animeId":       req.AnimeID,
					"episodeNumber": req.EpisodeNumber,
					"streamUrl":     req.StreamURL,
					"quality":       string(req.Resolution),
					"language":      string(req.Language),
					"serverId":      req.ServerID,
				}
			})
			payload, err := client.do(cmd.Context(), http.MethodPost, "/api/admin/streams", nil, map[string]any{"bulk": true, "streams": items})
			if err != nil {
				return err
			}
			cmd.Printf("registered %d servers, %v\n", len(seed.Servers), payload["message"])
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	lo.Must0(cmd.MarkFlagRequired("file"))
	return cmd
}

func newRemoveCmd(clientFor clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <stream-id>",
		Short: "Remove a custom stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("streamId", args[0])
			if _, err := clientFor().do(cmd.Context(), http.MethodDelete, "/api/admin/streams", query, nil); err != nil {
				return err
			}
			cmd.Printf("removed %s\n", args[0])
			return nil
		},
	}
}

func newStatsCmd(clientFor clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show registry counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := url.Values{}
			query.Set("action", "stats")
			payload, err := clientFor().do(cmd.Context(), http.MethodGet, "/api/admin/streams", query, nil)
			if err != nil {
				return err
			}

			stats, _ := payload["stats"].(map[string]any)
			cmd.Printf("total:  %v\nactive: %v\n", stats["totalStreams"], stats["activeStreams"])
			byServer, _ := stats["streamsByServer"].(map[string]any)
			servers := lo.Keys(byServer)
			sort.Strings(servers)
			for _, server := range servers {
				cmd.Printf("  %-20s %v\n", server, byServer[server])
			}
			return nil
		},
	}
}

func newServersCmd(clientFor clientFactory) *cobra.Command {
	var (
		animeID   string
		episode   int
		episodeID string
	)

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "List registered servers, or the servers available for an episode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := clientFor()
			if animeID == "" {
				payload, err := client.do(cmd.Context(), http.MethodGet, "/api/admin/servers/registry", nil, nil)
				if err != nil {
					return err
				}
				return printJSON(cmd, payload["servers"])
			}

			query := url.Values{}
			query.Set("animeId", animeID)
			query.Set("episodeNumber", strconv.Itoa(episode))
			if episodeID != "" {
				query.Set("episodeId", episodeID)
			}
			payload, err := client.do(cmd.Context(), http.MethodGet, "/api/admin/servers", query, nil)
			if err != nil {
				return err
			}
			delete(payload, "success")
			return printJSON(cmd, payload)
		},
	}

	cmd.Flags().StringVarP(&animeID, "anime", "a", "", "Anime id")
	cmd.Flags().IntVarP(&episode, "episode", "e", 1, "Episode number")
	cmd.Flags().StringVar(&episodeID, "episode-id", "", "Provider episode id, adds the merged stream view")
	return cmd
}

func newSearchCmd(clientFor clientFactory) *cobra.Command {
	var (
		page        int
		suggestions bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the hianime catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("q", args[0])
			if suggestions {
				query.Set("type", "suggestions")
			} else {
				query.Set("page", strconv.Itoa(page))
			}
			payload, err := clientFor().do(cmd.Context(), http.MethodGet, "/api/admin/search", query, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, payload["results"])
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Result page")
	cmd.Flags().BoolVar(&suggestions, "suggestions", false, "Return autocomplete suggestions instead")
	return cmd
}
