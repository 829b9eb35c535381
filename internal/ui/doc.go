// Package ui implements the fichas terminal interface with Bubble Tea.
//
// # Screen
//
// One screen, top to bottom:
//
//   - header: brand, title and the API connection indicator
//   - progress: a bar plus three stage cards (Upload, Processamento,
//     Download) computed from the workflow phase on every render
//   - intake panel: the path input and file list while collecting, the
//     download action once a result exists, the new-mission action at the
//     end
//   - status message of the last action
//   - footer with context key hints
//
// # Dropping files
//
// Terminals paste the path of a file dragged onto them. The path input
// accepts one or more such paths (quoted, escaped or file:// URIs) and enter
// probes them in the background. Directories contribute the PDFs they
// contain. Probed PDFs join the current selection; the eight-file cap applies
// to the combined batch.
//
// # Event flow
//
// All workflow mutations happen in Model.Update. Network calls and file
// probing run as tea.Cmds and report back as messages. The delayed
// transitions after a download are tea.Tick commands carrying a
// workflow.Ticket, so a new mission started in between cancels them.
//
// # Themes
//
// Nightfox, Kanagawa and Slate. T cycles them and the choice is persisted to
// the preferences file.
package ui
