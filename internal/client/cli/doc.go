// Package cli provides the notetake command-line client.
//
// It wires configuration, the local store, the tag registry, the note
// repository, the attachment manager and the collaborator client into a
// cobra command tree:
//
//	notetake note list|show|new|edit|delete|export
//	notetake tag list|add|rename|rm
//	notetake chat
//	notetake data export|import|reset
//	notetake ping
//
// "note new" and "note edit" open an interactive editor REPL (see
// runEditorREPL); "chat" opens a conversation REPL. Both read from the
// command's input stream until "save", "cancel" or "exit".
package cli
