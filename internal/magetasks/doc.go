// Package magetasks provides organized build tasks for the mdreport project.
//
// This package contains the build, test, lint and report tasks used by the
// Magefile. The report task runs the project's own tests through the
// mdreport pipeline and writes a Markdown report.
package magetasks
