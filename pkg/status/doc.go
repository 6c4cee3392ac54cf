/*
Package status collects per-entry results and derives the verdict of a run.

	+-----------+      +-----------+      +-----------+
	| operation | ---> |  Result   | ---> |  Report   |
	| per entry |      | (outcome) |      | (verdict) |
	+-----------+      +-----------+      +-----------+

🎯 Purpose:
- One Result per config entry or tool, never shared between entries
- A Report keeps results in order and derives success / warnings / failure
- Only failed results make a command exit non-zero

⚡ Outcomes:
  - success: the entry was copied, verified or found
  - skipped: not found, or destination kept without --force
  - warning: content drift or an optional tool missing
  - failed:  an IO error or a mandatory item missing
*/
package status
