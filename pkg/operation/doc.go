/*
Package operation implements the dotcfg commands.

	+-----------+      +-----------+      +-----------+
	|  system   | ---> |   repo    | ---> |  system   |
	| ~/.bashrc | sync | configs/  | inst |           |
	+-----------+      +-----------+      +-----------+
	      |                                     ^
	      | backup                              | install --from
	      v                                     |
	+---------------------------+               |
	| backups/YYYY-MM-DD/...    | --------------+
	+---------------------------+

🎯 Purpose:
- Drives backup, sync, install, verify and diff over the registry entries
- Collects one status.Result per entry (and per tool for verify)
- Prints every result as it happens and a summary at the end

🔄 Flow:
1. Select entries from the registry (a name, an alias or all)
2. Run each entry through the Runner, one after another
3. Copy or compare with the tree package, check tools with the tools package
4. Derive the verdict; a failed verdict is returned as ErrFailed

⚡ Rules:
- An entry never stops the ones after it
- A missing source is skipped, not failed
- install keeps existing system files unless forced
- Only failures make a command fail; warnings and skips do not

🔍 Example:

	op, err := operation.New(operation.Options{
		Fs:       afero.NewOsFs(),
		Registry: registry.New(paths),
		Logger:   log.New(os.Stdout, zerolog.Nop()),
	})
	report, err := op.Sync(ctx, operation.SyncOptions{Target: "all", DryRun: true})
*/
package operation
