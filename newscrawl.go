// Package newscrawl provides a historical archive crawler for news sites.
// It walks a site's date-indexed archive one calendar day at a time,
// discovers article links on each day's index page, fetches every article,
// extracts its structured fields, and persists the collected records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package newscrawl
