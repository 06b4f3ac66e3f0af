// SPDX-License-Identifier: MPL-2.0

// Package config loads questc settings with Viper, using CUE as the file
// format.
//
// Settings are layered: built-in defaults, then the config file
// (<user config dir>/questc/config.cue, or ./questc.cue when that does not
// exist, or the file given with --config), then QUESTC_* environment
// variables (QUESTC_CHECKER_TIMEOUT overrides checker.timeout). The file is
// validated against the embedded config_schema.cue before it is merged.
package config
