/*
Package config loads the optional dotcfg settings file.

Settings only move the roots around; the set of managed configs is fixed in
package registry.

	home    = "/home/me"            # defaults to the user's home directory
	repo    = "~/src/dotfiles"      # defaults to $DOTCFG_REPO or the working directory
	backups = "${home}/snapshots"   # defaults to <repo>/backups
	ignore  = ["*.bak", "runtime"]  # extra globs skipped by copy and diff

The file format follows the extension: .yaml/.yml, .json, .toml or .hcl. HCL
files may reference the variables home and repo. Relative paths are resolved
against the directory holding the settings file.
*/
package config
