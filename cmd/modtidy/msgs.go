package main

// User-facing strings, kept in one place so commands stay readable.
const (
	MsgRootShort = "Reconcile a Sims 4 mod library"
	MsgRootLong  = `modtidy reconciles a directory tree of installed game mods: it
deduplicates files by content, detects resource-identifier conflicts
between packages, flags corrupt or truncated files and reorganizes
what survives into category folders, keeping a quarantine area so a
prior state stays recoverable.

By default modtidy only previews the plan. Pass --apply to make the
changes; a zip backup of the whole tree is written first.`

	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagApply      = "Make changes (default is preview only)"
	MsgFlagAuto       = "Run silently and exit (for automation)"
	MsgFlagRoot       = "Mod library root directory"
	MsgFlagQuarantine = "Quarantine directory for suspect files"
	MsgFlagReportDir  = "Directory for conflict, broken-mods and inventory reports"
	MsgFlagNoProgress = "Disable progress bars"
)
