package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3001")
//	-r string   gRPC bind address (e.g., ":50051")
//	-l string   log level
//	-i string   image backend: cloudinary or s3
//	-f string   upload folder
//	-x string   comma separated list of allowed image extensions
//	-m string   chat model
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-chrome     path to a Chrome/Chromium binary
//
// args are filtered with flagx.FilterArgs first, so -c and other components'
// flags never reach this flag set.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-r", "-l", "-i", "-f", "-x", "-m", "-b", "-g", "-e", "-chrome"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve the HTTP API")
	fs.StringVar(&config.GRPCAddr, "r", config.GRPCAddr, "address and port to serve gRPC")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.ImageBackend, "i", config.ImageBackend, "image backend (cloudinary|s3)")
	fs.StringVar(&config.UploadFolder, "f", config.UploadFolder, "upload folder")
	formats := fs.String("x", strings.Join(config.AllowedFormats, ","), "allowed image extensions")
	fs.StringVar(&config.ChatModel, "m", config.ChatModel, "chat model")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.ChromePath, "chrome", config.ChromePath, "Chrome binary")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.AllowedFormats = splitList(*formats)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(strings.TrimPrefix(p, ".")))
		}
	}
	return out
}
