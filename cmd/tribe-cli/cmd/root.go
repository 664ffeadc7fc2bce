package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tribe-cli",
	Short: "command line client for the reward tribe server",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("endpoint", "l", "http://localhost:8080/api", "api endpoint")
	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.SetEnvPrefix("tribe")
	viper.AutomaticEnv()
}

type apiError struct {
	Error struct {
		Kind    string            `json:"kind"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func (e *apiError) err() error {
	msg := e.Error.Message
	if len(e.Error.Fields) > 0 {
		parts := make([]string, 0, len(e.Error.Fields))
		for field, m := range e.Error.Fields {
			parts = append(parts, field+" "+m)
		}
		msg = strings.Join(parts, "; ")
	}

	return fmt.Errorf("%s: %s", e.Error.Kind, msg)
}

func client() *resty.Client {
	return resty.New().
		SetBaseURL(viper.GetString("endpoint")).
		SetHeader("Content-Type", "application/json")
}

// call sends body to path and prints the JSON response.
func call(cmd *cobra.Command, method, path string, body any) error {
	var (
		out  json.RawMessage
		fail apiError
	)

	req := client().R().
		SetContext(cmd.Context()).
		SetResult(&out).
		SetError(&fail)

	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	if resp.IsError() {
		if fail.Error.Kind == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status())
		}

		return fail.err()
	}

	if len(out) == 0 {
		return nil
	}

	return printJson(cmd, out)
}

func printJson(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(b))
	return nil
}
