package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/config"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/where"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	msg := fmt.Sprintf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)

	return errors.New(msg)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func completionConfigGroups(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.Groups(), cobra.ShellCompDirectiveNoFileComp
}

// parseConfigValue converts command line input to the type of the field's default.
func parseConfigValue(field config.Field, raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no value given for %s", field.Key)
	}

	switch field.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value for %s: %s", field.Key, raw[0])
		}
		return n, nil
	case float64:
		f, err := strconv.ParseFloat(raw[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float value for %s: %s", field.Key, raw[0])
		}
		return f, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value for %s: %s", field.Key, raw[0])
		}
		return b, nil
	case []string:
		return lo.Compact(lo.Map(raw, func(s string, _ int) string {
			return strings.TrimSpace(s)
		})), nil
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", field.Key)
	}
}

// assignConfigValue parses, checks and applies a value for key.
// A rejected value leaves the current one in place.
func assignConfigValue(key string, raw []string) (any, error) {
	field, ok := config.Default[key]
	if !ok {
		return nil, errUnknownKey(key)
	}

	v, err := parseConfigValue(field, raw)
	if err != nil {
		return nil, err
	}
	if err := field.Validate(v); err != nil {
		return nil, err
	}

	previous := viper.Get(key)
	viper.Set(key, v)

	// weights are only meaningful together
	if strings.HasPrefix(key, "rank.weight_") {
		if err := weights().Validate(); err != nil {
			viper.Set(key, previous)
			return nil, err
		}
	}

	return v, nil
}

func writeConfig() error {
	switch err := viper.WriteConfig(); err.(type) {
	case viper.ConfigFileNotFoundError:
		return viper.SafeWriteConfig()
	default:
		return err
	}
}

func configFilePath() string {
	return filepath.Join(where.Config(), fmt.Sprintf("%s.%s", constant.Streamdex, "toml"))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change streamdex settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().StringP("group", "g", "", "Only show keys of one component group")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	configInfoCmd.MarkFlagsMutuallyExclusive("key", "group")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	_ = configInfoCmd.RegisterFlagCompletionFunc("group", completionConfigGroups)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd describes fields, the component each one feeds and its accepted values.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what each setting does and which component reads it",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys   = lo.Must(cmd.Flags().GetStringSlice("key"))
			group  = lo.Must(cmd.Flags().GetString("group"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
		)

		fields, err := selectFields(keys, group)
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(fields))
			return
		}

		for i, field := range fields {
			fmt.Print(field.Pretty())

			if i < len(fields)-1 {
				fmt.Println()
				fmt.Println()
			}
		}
	},
}

// selectFields returns the named fields, or every field of group, or all of them.
func selectFields(keys []string, group string) ([]config.Field, error) {
	var fields []config.Field

	switch {
	case len(keys) > 0:
		for _, k := range keys {
			field, ok := config.Default[k]
			if !ok {
				return nil, errUnknownKey(k)
			}
			fields = append(fields, field)
		}
	case group != "":
		if !lo.Contains(config.Groups(), group) {
			return nil, fmt.Errorf("unknown group %s, available groups are: %s",
				style.Fg(color.Red)(group), strings.Join(config.Groups(), ", "))
		}
		fields = lo.Filter(lo.Values(config.Default), func(f config.Field, _ int) bool {
			return f.Group() == group
		})
	default:
		fields = lo.Values(config.Default)
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Key < fields[j].Key
	})
	return fields, nil
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "The new value; repeat or comma separate for list keys")

	configSetCmd.Flags().StringP("key", "k", "", "The key to update")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configSetCmd checks a value against the field's constraints before saving it.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Change a setting",
	Example:           "  streamdex config set fetch.mode relay\n  streamdex config set catalog.pages https://a.example https://b.example",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var k string
		var value []string

		flagKey, _ := cmd.Flags().GetString("key")
		flagValue, _ := cmd.Flags().GetStringSlice("value")

		switch {
		case len(args) >= 1:
			k = args[0]
		case flagKey != "":
			k = flagKey
		default:
			handleErr(errors.New("key is required as an argument or --key flag"))
		}

		switch {
		case len(args) >= 2:
			value = args[1:]
		case len(flagValue) > 0:
			value = flagValue
		default:
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		v, err := assignConfigValue(k, value)
		handleErr(err)
		handleErr(writeConfig())

		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(k),
			style.Fg(color.Yellow)(fmt.Sprintf("%v", v)),
		)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configGetCmd prints the effective value of a key.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		var k string
		flagKey, _ := cmd.Flags().GetString("key")

		switch {
		case len(args) >= 1:
			k = args[0]
		case flagKey != "":
			k = flagKey
		default:
			handleErr(errors.New("key is required as an argument or --key flag"))
		}

		if _, ok := config.Default[k]; !ok {
			handleErr(errUnknownKey(k))
		}

		fmt.Println(viper.Get(k))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

// configWriteCmd saves the effective configuration, env overrides included.
var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Save the effective configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			exists, err := afero.Exists(filesystem.API(), path)
			handleErr(err)
			if exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		fmt.Printf(
			"%s wrote config to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			path,
		)
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "The key to restore")
	configResetCmd.Flags().StringP("group", "g", "", "Restore every key of one component group")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "group", "all")
	configResetCmd.MarkFlagsOneRequired("key", "group", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	_ = configResetCmd.RegisterFlagCompletionFunc("group", completionConfigGroups)
}

// configResetCmd restores defaults for one key, one group or everything.
var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings to their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			k     = lo.Must(cmd.Flags().GetString("key"))
			group = lo.Must(cmd.Flags().GetString("group"))
		)

		var keys []string
		if !lo.Must(cmd.Flags().GetBool("all")) {
			keys = lo.Compact([]string{k})
		}

		fields, err := selectFields(keys, group)
		handleErr(err)

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(writeConfig())

		fmt.Printf(
			"%s reset %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(strings.Join(lo.Map(fields, func(f config.Field, _ int) string {
				return f.Key
			}), ", ")),
		)
	},
}
