// Package config handles configuration loading and merging for mdreport.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--output, --git, --theme, etc.)
//  2. Environment variables bound to those flags (MDREPORT_OUTPUT, MDREPORT_GIT, ...)
//  3. YAML config file (.mdreport.yaml in the working directory or
//     $XDG_CONFIG_HOME/mdreport/.mdreport.yaml)
//  4. Hardcoded defaults
//
// Flags and their environment variables are merged by the command line
// parser, so Resolve sees them as one source.
//
// # Git provenance
//
// The git addon reads the repository at "." unless disabled. It is optional
// (failures leave the fragment out) unless a path was given explicitly with
// --git or MDREPORT_GIT, or the file sets git.required.
//
// # Environment Variables
//
// Besides the flag bindings, the following are read directly:
//
//   - NO_COLOR: any non-empty value selects the mono console theme
//   - GITHUB_RUN_ID, GITHUB_REPOSITORY, GITHUB_SERVER_URL: the CI job link
package config
