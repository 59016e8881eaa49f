// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/app"
	"codeberg.org/phraseforge/phraseforge/core/exchange"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/random"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"codeberg.org/phraseforge/phraseforge/core/translator"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *cli) translateCmd() *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text, standard input or files",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := c.rules(cmd.Context())
			if err != nil {
				return err
			}

			if len(files) > 0 {
				return translateFiles(cmd, files, rules)
			}

			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), translator.Translate(text, rules))

			return nil
		},
	}

	c.addRuleFlags(cmd)
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Translate these files instead of the arguments")

	return cmd
}

// translateFiles translates every file concurrently and prints the results in
// argument order, each under a header when there is more than one.
func translateFiles(cmd *cobra.Command, files []string, rules ruleset.RuleSet) error {
	results := make([]string, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			results[i] = translator.Translate(string(data), rules)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for i, result := range results {
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}

			fmt.Fprintf(out, "==> %s <==\n", files[i])
		}

		fmt.Fprint(out, result)
	}

	return nil
}

func (c *cli) countCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [text...]",
		Short: "Count rule applications, characters and words",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := c.rules(cmd.Context())
			if err != nil {
				return err
			}

			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			stats := app.NewState().WithInput(text).Stats()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "rule applications: %d\n", translator.CountRuleApplications(text, rules))
			fmt.Fprintf(out, "characters: %d\n", stats.Characters)
			fmt.Fprintf(out, "words: %d\n", stats.Words)

			return nil
		},
	}

	c.addRuleFlags(cmd)

	return cmd
}

func (c *cli) shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Convert between rule sets and share codes",
	}

	var base string

	encode := &cobra.Command{
		Use:   "encode",
		Short: "Print the share code, or link, of a rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := c.rules(cmd.Context())
			if err != nil {
				return err
			}

			var out string
			if base != "" {
				out, err = share.Link(share.Base64Codec{}, base, rules)
			} else {
				out, err = share.Base64Codec{}.Encode(rules)
			}

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)

			return nil
		},
	}

	c.addRuleFlags(encode)
	encode.Flags().StringVar(&base, "base", "", "Print a share link on top of this URL")

	decode := &cobra.Command{
		Use:   "decode <code>",
		Short: "Print the rule set carried by a share code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := share.Base64Codec{}.Decode(args[0])
			if err != nil {
				return fmt.Errorf("invalid share code: %w", err)
			}

			return printRules(cmd, rules)
		},
	}

	cmd.AddCommand(encode, decode)

	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		name string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a rule set to an export file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				name = c.saved
			}

			if name == "" {
				return fmt.Errorf("%w: pass --name or --saved", errNameRequired)
			}

			rules, err := c.rules(cmd.Context())
			if err != nil {
				return err
			}

			data, err := exchange.Export(name, rules, time.Now())
			if err != nil {
				return err
			}

			fileName := exchange.FileName(name)

			if err := (exchange.DirChannel{Dir: dir}).Write(cmd.Context(), fileName, data); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, fileName))

			return nil
		},
	}

	c.addRuleFlags(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Name recorded in the export (defaults to --saved)")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the export to")

	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Save the rule set of an export file in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			channel := exchange.DirChannel{Dir: filepath.Dir(args[0])}

			data, err := channel.Read(ctx, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			imported, err := exchange.Import(data)
			if err != nil {
				return fmt.Errorf("%s is not a rule set export: %w", args[0], err)
			}

			err = c.withLibrary(ctx, func(lib *library.Library) error {
				return lib.Save(ctx, imported.Name, imported.Rules)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q\n", imported.Name)

			return nil
		},
	}
}

func (c *cli) randomCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random rule set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewPCG(seed, seed))
			}

			return printRules(cmd, random.Generate(rng))
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible rule set")

	return cmd
}

func (c *cli) libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage saved rule sets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the saved rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) error {
				names, err := lib.Names(cmd.Context())
				if err != nil {
					return err
				}

				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}

				return nil
			})
		},
	}

	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a rule set under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := c.rules(cmd.Context())
			if err != nil {
				return err
			}

			return c.withLibrary(cmd.Context(), func(lib *library.Library) error {
				return lib.Save(cmd.Context(), args[0], rules)
			})
		},
	}

	c.addRuleFlags(save)

	load := &cobra.Command{
		Use:   "load <name>",
		Short: "Print a saved rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.saved = args[0]

			rules, err := c.rules(cmd.Context())
			if err != nil {
				return err
			}

			return printRules(cmd, rules)
		},
	}

	remove := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved rule set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd.Context(), func(lib *library.Library) error {
				return lib.Delete(cmd.Context(), args[0])
			})
		},
	}

	cmd.AddCommand(list, save, load, remove)

	return cmd
}

func printRules(cmd *cobra.Command, rules ruleset.RuleSet) error {
	data, err := ruleset.Marshal(rules)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}
