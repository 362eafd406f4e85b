package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Drive the session state machine",
}

var (
	showWait     bool
	stepWait     bool
	captureWait  bool
	stepFields   []string
	disabledAI   []string
	cameraReason string
)

func simpleSessionCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return apiClient.do(http.MethodPost, path, nil, nil)
		},
	}
}

func waitQuery(wait bool) map[string]string {
	return map[string]string{"wait": strconv.FormatBool(wait)}
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current session snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodGet, "/v1/session", nil, waitQuery(showWait))
	},
}

var sessionStepCmd = &cobra.Command{
	Use:   "step [signup|login]",
	Short: "Submit the current wizard step",
	Long: `Submit the current signup or login step. Fields are passed as key=value pairs.

Signup fields: phone, email, code, username, avatar, displayName, bio.
Login fields: identifier, code.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"signup", "login"},
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := parseFields(stepFields)
		if err != nil {
			return err
		}
		switch args[0] {
		case "signup":
			return apiClient.do(http.MethodPost, "/v1/session/signup/steps", body, waitQuery(stepWait))
		case "login":
			return apiClient.do(http.MethodPost, "/v1/session/login/steps", body, nil)
		default:
			return fmt.Errorf("unknown wizard %q, expected signup or login", args[0])
		}
	},
}

var sessionSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Complete the AI setup wizard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]bool{}
		for _, feature := range disabledAI {
			body[feature] = false
		}
		return apiClient.do(http.MethodPost, "/v1/session/setup", body, nil)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Emotion scan lifecycle",
}

var scanCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a frame and classify it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiClient.do(http.MethodPost, "/v1/session/emotion-scan/capture", nil, waitQuery(captureWait))
	},
}

var scanFrameCmd = &cobra.Command{
	Use:   "frame [image-file]",
	Short: "Push a JPEG or PNG frame to the relayed camera",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		return apiClient.upload("/v1/session/emotion-scan/frame", mimetype.Detect(data).String(), data)
	},
}

var scanCameraErrorCmd = &cobra.Command{
	Use:   "camera-error",
	Short: "Report a camera failure seen by the client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"reason": cameraReason}
		return apiClient.do(http.MethodPost, "/v1/session/emotion-scan/camera-error", body, nil)
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(simpleSessionCmd("signup", "Start the signup wizard", "/v1/session/signup"))
	sessionCmd.AddCommand(simpleSessionCmd("login", "Start the login wizard", "/v1/session/login"))
	sessionCmd.AddCommand(simpleSessionCmd("back", "Go back one wizard step", "/v1/session/back"))
	sessionCmd.AddCommand(sessionStepCmd)
	sessionCmd.AddCommand(sessionSetupCmd)
	sessionCmd.AddCommand(scanCmd)
	sessionCmd.AddCommand(simpleSessionCmd("logout", "Log out and clear the stored profile", "/v1/session/logout"))

	scanCmd.AddCommand(simpleSessionCmd("start", "Open the camera", "/v1/session/emotion-scan/start"))
	scanCmd.AddCommand(simpleSessionCmd("retry", "Retry opening the camera", "/v1/session/emotion-scan/retry"))
	scanCmd.AddCommand(simpleSessionCmd("skip", "Skip or bypass the scan", "/v1/session/emotion-scan/skip"))
	scanCmd.AddCommand(scanCaptureCmd)
	scanCmd.AddCommand(scanFrameCmd)
	scanCmd.AddCommand(scanCameraErrorCmd)

	sessionShowCmd.Flags().BoolVar(&showWait, "wait", false, "Wait for pending advisory work")
	sessionStepCmd.Flags().StringArrayVar(&stepFields, "field", nil, "Step field (key=value)")
	sessionStepCmd.Flags().BoolVar(&stepWait, "wait", false, "Wait for the username check")
	sessionSetupCmd.Flags().StringSliceVar(&disabledAI, "disable", nil, "AI features to turn off")
	scanCaptureCmd.Flags().BoolVar(&captureWait, "wait", true, "Wait for the emotion result")
	scanCameraErrorCmd.Flags().StringVar(&cameraReason, "reason", "hardware", "permission_denied or hardware")
}

func parseFields(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}
