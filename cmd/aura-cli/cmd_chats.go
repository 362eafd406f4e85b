package main

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	workspaceFlag string
	colorFlag     string
	iconFlag      string
	displayName   string
	bioFlag       string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the active profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodGet, "/v1/profile", nil, nil)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit display name or bio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{}
		if cmd.Flags().Changed("display-name") {
			body["displayName"] = displayName
		}
		if cmd.Flags().Changed("bio") {
			body["bio"] = bioFlag
		}
		return apiClient.do(http.MethodPatch, "/v1/profile", body, nil)
	},
}

var profileToggleCmd = &cobra.Command{
	Use:   "toggle [feature]",
	Short: "Toggle one AI feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodPost, "/v1/profile/ai-features/"+url.PathEscape(args[0])+"/toggle", nil, nil)
	},
}

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List, open and tag chats",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats under a workspace filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodGet, "/v1/chats", nil, map[string]string{"workspace": workspaceFlag})
	},
}

var chatsOpenCmd = &cobra.Command{
	Use:   "open [chat-id]",
	Short: "Open a chat thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodGet, "/v1/chats/"+url.PathEscape(args[0]), nil, nil)
	},
}

var chatsSendCmd = &cobra.Command{
	Use:   "send [chat-id] [text]",
	Short: "Send a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodPost, "/v1/chats/"+url.PathEscape(args[0])+"/messages",
			map[string]string{"text": args[1]}, nil)
	},
}

var chatsTagCmd = &cobra.Command{
	Use:   "tag [chat-id] [workspace-id]",
	Short: "Toggle a workspace tag on a chat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodPost,
			"/v1/chats/"+url.PathEscape(args[0])+"/workspaces/"+url.PathEscape(args[1])+"/toggle", nil, nil)
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage groups",
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a group, tagged with --workspace unless it is all",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[0], "color": colorFlag, "workspace": workspaceFlag}
		return apiClient.do(http.MethodPost, "/v1/groups", body, nil)
	},
}

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "Manage workspaces",
}

var workspacesCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[0], "icon": iconFlag, "color": colorFlag}
		return apiClient.do(http.MethodPost, "/v1/workspaces", body, nil)
	},
}

var workspacesUpdateCmd = &cobra.Command{
	Use:   "update [workspace-id] [name]",
	Short: "Rename or recolor a workspace",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[1], "icon": iconFlag, "color": colorFlag}
		return apiClient.do(http.MethodPut, "/v1/workspaces/"+url.PathEscape(args[0]), body, nil)
	},
}

var workspacesDeleteCmd = &cobra.Command{
	Use:   "delete [workspace-id]",
	Short: "Delete a workspace and untag every chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodDelete, "/v1/workspaces/"+url.PathEscape(args[0]), nil, nil)
	},
}

var directoryCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the identity directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodGet, "/v1/directory", nil, map[string]string{"q": args[0]})
	},
}

func init() {
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileToggleCmd)
	profileEditCmd.Flags().StringVar(&displayName, "display-name", "", "New display name")
	profileEditCmd.Flags().StringVar(&bioFlag, "bio", "", "New bio")

	chatsCmd.AddCommand(chatsListCmd, chatsOpenCmd, chatsSendCmd, chatsTagCmd)
	chatsListCmd.Flags().StringVar(&workspaceFlag, "workspace", "all", "Workspace filter")

	groupsCmd.AddCommand(groupsCreateCmd)
	groupsCreateCmd.Flags().StringVar(&workspaceFlag, "workspace", "all", "Active workspace filter")
	groupsCreateCmd.Flags().StringVar(&colorFlag, "color", "", "Group color")

	workspacesCmd.AddCommand(workspacesCreateCmd, workspacesUpdateCmd, workspacesDeleteCmd)
	for _, c := range []*cobra.Command{workspacesCreateCmd, workspacesUpdateCmd} {
		c.Flags().StringVar(&iconFlag, "icon", "", "Workspace icon")
		c.Flags().StringVar(&colorFlag, "color", "", "Workspace color")
	}
}
