// Package client talks to the notetake collaborator backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering the
//     four collaborator calls: Upload, DeleteImage, ExportPDF and Chat,
//     plus Ping.
//  2. HTTPClient, which speaks the JSON/multipart HTTP API.
//  3. GRPCClient, which speaks the notetake.v1.Collaborators gRPC mirror and
//     maps status codes to sentinel errors.
//
// # Error Handling
//
// HTTP failures surface as *netx.StatusError carrying the server's message.
// gRPC failures map to ErrInvalidRequest and ErrUnavailable where the code
// allows, and are wrapped otherwise.
//
// Neither client retries or applies its own timeouts; cancellation comes
// only from the caller's context.
package client
