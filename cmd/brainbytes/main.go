// Package main 实现 brainbytes 命令行工具，用于在终端中与 BrainBytes 服务端对话。
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/client"
	"brainbytes-go/pkg/subject"

	"github.com/spf13/cobra"
)

var (
	// serverURL 是 BrainBytes 服务端地址
	serverURL string
	timeout   time.Duration
	version   = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brainbytes",
		Short: "Chat with the BrainBytes tutor from the terminal",
		Long: `brainbytes is a command-line client for the BrainBytes tutoring server.
Questions are sorted into subjects with the same rules the server uses.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "BrainBytes server URL")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(classifyCmd(), askCmd(), historyCmd(), clearCmd(), statsCmd(), subjectsCmd())
	return root
}

func newClient() *client.Client {
	return client.New(serverURL, nil)
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// classifyCmd 在本地运行分类器，不访问服务端
func classifyCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Show which subject a question belongs to",
		Long: `Classify a question locally.

Examples:
  brainbytes classify "what is an atom"
  brainbytes classify --filter History "solve this equation"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			fmt.Fprintln(cmd.OutOrStdout(), subject.Partition(text, "", filter))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "active subject filter")
	return cmd
}

func askCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the tutor a question",
		Long: `Send a question to the server and print the reply.

Examples:
  brainbytes ask "tell me about atoms"
  brainbytes ask --filter Math "what about negative numbers"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			s := client.NewSession(newClient())
			s.SetFilter(filter)
			res, err := s.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("ask failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "[%s] %s\n", res.AIMessage.Subject, res.AIMessage.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "active subject filter")
	return cmd
}

func historyCmd() *cobra.Command {
	var filter string
	var counts bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the conversation history grouped by subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			s := client.NewSession(newClient())
			if filter != "" {
				sub, ok := subject.Parse(filter)
				if !ok {
					return fmt.Errorf("unknown subject %q", filter)
				}
				s.SetFilter(sub.String())
			}
			if err := s.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			out := cmd.OutOrStdout()
			if counts {
				for _, c := range s.View().UserCounts() {
					fmt.Fprintf(out, "%-12s %d\n", c.Subject, c.Count)
				}
				return nil
			}
			printMessages(out, s.View().Messages())
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "subject", "", "only show one subject")
	cmd.Flags().BoolVar(&counts, "counts", false, "print question counts per subject")
	return cmd
}

func printMessages(w io.Writer, msgs []model.Message) {
	for _, m := range msgs {
		who := "tutor"
		if m.IsUser {
			who = "you"
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Subject, who, m.Text)
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <subject>",
		Short: "Delete every message of a subject",
		Long: `Delete every message of a subject on the server.
Clearing General also removes messages whose stored subject is empty or unknown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			res, err := newClient().DeleteSubject(ctx, args[0])
			if err != nil {
				return fmt.Errorf("clear failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			stats, err := newClient().Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, c := range stats.SubjectData {
				fmt.Fprintf(out, "%-12s %d\n", c.Subject, c.Count)
			}
			fmt.Fprintf(out, "total        %d\n", stats.TotalQuestions)
			if stats.LastActive != nil {
				fmt.Fprintf(out, "last active  %s\n", stats.LastActive.Local().Format(time.RFC3339))
			}
			fmt.Fprintf(out, "streak       %d\n", stats.Streak)
			return nil
		},
	}
}

// subjectsCmd 比较本地与服务端的分类器版本
func subjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subjects and check the classifier version against the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			info, err := newClient().Subjects(ctx)
			if err != nil {
				return fmt.Errorf("failed to load subjects: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.Join(info.Subjects, ", "))
			if info.Version != subject.Version {
				fmt.Fprintf(out, "warning: server classifier %s, local classifier %s\n", info.Version, subject.Version)
			}
			return nil
		},
	}
}
