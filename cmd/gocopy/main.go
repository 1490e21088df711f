// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/navwar/gocopy/pkg/fs"
	"github.com/navwar/gocopy/pkg/lfs"
	"github.com/navwar/gocopy/pkg/log"
	"github.com/navwar/gocopy/pkg/s3fs"
	"github.com/navwar/gocopy/pkg/ts"
)

const (
	GoCopyVersion = "0.0.1"
)

// AWS Flags
const (
	// Profile
	flagAWSProfile       = "aws-profile"
	flagAWSDefaultRegion = "aws-default-region"
	flagAWSRegion        = "aws-region"
	// Credentials
	flagAWSAccessKeyID     = "aws-access-key-id"
	flagAWSSecretAccessKey = "aws-secret-access-key"
	flagAWSSessionToken    = "aws-session-token"
	// Client
	flagAWSRetryMaxAttempts = "aws-retry-max-attempts"
	// TLS
	flagAWSInsecureSkipVerify = "aws-insecure-skip-verify"
	// Miscellaneous
	flagAWSS3Endpoint     = "aws-s3-endpoint"
	flagAWSS3UsePathStyle = "aws-s3-use-path-style"
	flagBucketKeyEnabled  = "aws-bucket-key-enabled"
)

// Prefixes for the AWS flags of the source and destination of a copy
const (
	prefixSource      = "source-"
	prefixDestination = "destination-"
)

// Debug Flag
const (
	flagDebug = "debug"
)

// List Flags
const (
	flagAll                   = "all"
	flagRecursive             = "recursive"
	flagTimeLayout            = "time-layout"
	flagTimeZone              = "time-zone"
	flagHumanReadableFileSize = "human-readable-file-size"
	flagMaxDirectoryEntries   = "max-directory-entries"
)

// Copy Flags
const (
	flagSymlinks = "symlinks"
	flagVerify   = "verify"
	flagPartSize = "part-size"
)

// Log Flags
const (
	flagLogPath            = "log-path"
	flagLogFormat          = "log-format"
	flagLogPerm            = "log-perm"
	flagLogClientSigning   = "log-client-signing"
	flagLogClientRequests  = "log-client-requests"
	flagLogClientResponses = "log-client-responses"
	flagLogClientRetries   = "log-client-retries"
)

func initAWSFlags(flag *pflag.FlagSet) {
	// Profile
	flag.String(flagAWSProfile, "default", "AWS Profile")
	flag.String(flagAWSDefaultRegion, "", "AWS Default Region")
	flag.String(flagAWSRegion, "", "AWS Region (overrides default region)")
	// Credentials
	flag.String(flagAWSAccessKeyID, "", "AWS Access Key ID")
	flag.String(flagAWSSecretAccessKey, "", "AWS Secret Access Key")
	flag.String(flagAWSSessionToken, "", "AWS Session Token")
	// Client
	flag.Int(flagAWSRetryMaxAttempts, 5, "the maximum number attempts an AWS API client will call an operation that fails with a retryable error.")
	// TLS
	flag.Bool(flagAWSInsecureSkipVerify, false, "Skip verification of AWS TLS certificate")
	// Misceallenous
	flag.String(flagAWSS3Endpoint, "", "AWS S3 Endpoint URL")
	flag.Bool(flagAWSS3UsePathStyle, false, "Use path-style addressing (default is to use virtual-host-style addressing)")
	flag.Bool(flagBucketKeyEnabled, false, "bucket key enabled")
	flag.Int(flagMaxDirectoryEntries, -1, "maximum directory entries for each page returned by S3")
}

// initSideAWSFlags initializes the AWS flags that override the shared AWS flags for the source or destination.
func initSideAWSFlags(flag *pflag.FlagSet, prefix string, side string) {
	flag.String(prefix+flagAWSProfile, "", "AWS Profile for "+side)
	flag.String(prefix+flagAWSRegion, "", "AWS Region for "+side)
	flag.String(prefix+flagAWSS3Endpoint, "", "AWS S3 Endpoint URL for "+side)
	flag.Bool(prefix+flagAWSS3UsePathStyle, false, "Use path-style addressing (default is to use virtual-host-style addressing) for "+side)
	flag.String(prefix+flagAWSAccessKeyID, "", "AWS Access Key ID for "+side)
	flag.String(prefix+flagAWSSecretAccessKey, "", "AWS Secret Access Key for "+side)
	flag.String(prefix+flagAWSSessionToken, "", "AWS Session Token for "+side)
}

func initDebugFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagDebug, "d", false, "print debug messages")
}

func initListFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagAll, "a", false, "Include directory entries whose names begin with a dot (‘.’).")
	flag.StringP(flagTimeLayout, "t", "Default", "the layout to use for file timestamps.  Use go layout format, or the name of a layout.  Use gocopy layouts to show all named layouts.")
	flag.StringP(flagTimeZone, "z", "Local", "the timezone to use for file timestamps")
	flag.Bool(flagHumanReadableFileSize, false, "display file sizes in human-readable format")
	flag.BoolP(flagRecursive, "r", false, "recursively list sub-directories breadth-first")
}

func initCopyFlags(flag *pflag.FlagSet) {
	flag.StringP(flagSymlinks, "s", string(fs.SymlinkPolicyFollow), fmt.Sprintf("how to copy symbolic links, one of %q", fs.SymlinkPolicies))
	flag.Bool(flagVerify, false, "compare the contents of every copied file after the copy completes")
	flag.Int(flagPartSize, s3fs.DefaultPartSize, fmt.Sprintf("size of parts in bytes when transferring to or from S3 (minimum %d)", s3fs.MinimumPartSize))
	initSideAWSFlags(flag, prefixSource, "source")
	initSideAWSFlags(flag, prefixDestination, "destination")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogPath, "-", "path to the log output.  Defaults to the operating system's stdout device.")
	flag.StringP(flagLogFormat, "f", log.FormatText, fmt.Sprintf("output log format.  Either %s or %s.", log.FormatJSONL, log.FormatText))
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
	flag.Bool(flagLogClientSigning, false, "log AWS client signature requests")
	flag.Bool(flagLogClientRequests, false, "log AWS client requests")
	flag.Bool(flagLogClientResponses, false, "log AWS client responses")
	flag.Bool(flagLogClientRetries, false, "log AWS client retries")
}

func initListCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initAWSFlags(flag)
	initListFlags(flag)
	initLogFlags(flag)
}

func initCopyCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initAWSFlags(flag)
	initCopyFlags(flag)
	initLogFlags(flag)
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

// splitURI returns the scheme and path of the uri.  Paths without a scheme have an empty scheme.
func splitURI(uri string) (string, string) {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i], uri[i+len("://"):]
	}
	return "", uri
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	switch logFormat := v.GetString(flagLogFormat); logFormat {
	case log.FormatJSONL, log.FormatText:
	default:
		return fmt.Errorf("unknown log format %q", logFormat)
	}
	return nil
}

func checkURI(uri string) error {
	scheme, p := splitURI(uri)
	switch scheme {
	case "", "file":
		if len(p) == 0 {
			return fmt.Errorf("path is missing from uri %q", uri)
		}
	case "s3":
		if len(s3fs.Split(p)) == 0 {
			return fmt.Errorf("bucket is missing from uri %q", uri)
		}
	default:
		return fmt.Errorf("unsupported scheme %q in uri %q", scheme, uri)
	}
	return nil
}

func checkListConfig(v *viper.Viper, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expecting at most 1 positional argument for source, but found %d arguments", len(args))
	}
	if len(args) == 1 {
		if err := checkURI(args[0]); err != nil {
			return err
		}
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

func checkCopyConfig(v *viper.Viper, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expecting 2 positional arguments for source and destination, but found %d arguments", len(args))
	}

	for _, uri := range args {
		if err := checkURI(uri); err != nil {
			return err
		}
	}

	sourceScheme, sourcePath := splitURI(args[0])
	destinationScheme, destinationPath := splitURI(args[1])

	switch {
	case sourceScheme == "s3" && destinationScheme == "s3":
		if getString(v, prefixSource, flagAWSS3Endpoint) == getString(v, prefixDestination, flagAWSS3Endpoint) {
			if err := s3fs.Check(sourcePath, destinationPath); err != nil {
				return err
			}
		}
	case sourceScheme != "s3" && destinationScheme != "s3":
		absoluteSourcePath, err := filepath.Abs(sourcePath)
		if err != nil {
			return fmt.Errorf("error resolving source path %q: %w", sourcePath, err)
		}
		absoluteDestinationPath, err := filepath.Abs(destinationPath)
		if err != nil {
			return fmt.Errorf("error resolving destination path %q: %w", destinationPath, err)
		}
		// check for cycle errors
		if err := lfs.Check(absoluteSourcePath, absoluteDestinationPath); err != nil {
			return err
		}
	}

	if _, err := fs.ParseSymlinkPolicy(v.GetString(flagSymlinks)); err != nil {
		return err
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	if partSize := v.GetInt(flagPartSize); partSize < s3fs.MinimumPartSize {
		return fmt.Errorf("part size %d is less than the minimum part size %d", partSize, s3fs.MinimumPartSize)
	}
	return nil
}

// getString returns the value of the flag for the source or destination, falling back to the shared flag.
func getString(v *viper.Viper, prefix string, name string) string {
	if len(prefix) > 0 {
		if value := v.GetString(prefix + name); len(value) > 0 {
			return value
		}
	}
	return v.GetString(name)
}

type InitS3ClientInput struct {
	Profile string
	Region  string
	// AWS Client
	Endpoint           string
	InsecureSkipVerify bool
	RetryMaxAttempts   int
	UsePathStyle       bool
	// AWS Credentials
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// Client Log Mode
	LogClientSigning   bool
	LogClientRetries   bool
	LogClientRequests  bool
	LogClientResponses bool
}

// newInitS3ClientInput reads the AWS configuration for the source, destination or, if prefix is empty, both.
func newInitS3ClientInput(ctx context.Context, v *viper.Viper, prefix string) *InitS3ClientInput {
	profile := getString(v, prefix, flagAWSProfile)
	if len(profile) == 0 {
		profile = "default"
	}

	region := getString(v, prefix, flagAWSRegion)
	if len(region) == 0 {
		region = v.GetString(flagAWSDefaultRegion)
	}
	// if neither region nor default region is specified
	if len(region) == 0 {
		sharedConfig, loadSharedConfigProfileError := config.LoadSharedConfigProfile(ctx, profile)
		if loadSharedConfigProfileError == nil {
			region = sharedConfig.Region
		}
	}

	usePathStyle := v.GetBool(flagAWSS3UsePathStyle)
	if len(prefix) > 0 {
		usePathStyle = usePathStyle || v.GetBool(prefix+flagAWSS3UsePathStyle)
	}

	return &InitS3ClientInput{
		Profile: profile,
		Region:  region,
		// AWS Client
		Endpoint:           getString(v, prefix, flagAWSS3Endpoint),
		InsecureSkipVerify: v.GetBool(flagAWSInsecureSkipVerify),
		RetryMaxAttempts:   v.GetInt(flagAWSRetryMaxAttempts),
		UsePathStyle:       usePathStyle,
		// AWS Credentials
		AccessKeyID:     getString(v, prefix, flagAWSAccessKeyID),
		SecretAccessKey: getString(v, prefix, flagAWSSecretAccessKey),
		SessionToken:    getString(v, prefix, flagAWSSessionToken),
		// Client Log Mode
		LogClientSigning:   v.GetBool(flagLogClientSigning),
		LogClientRetries:   v.GetBool(flagLogClientRetries),
		LogClientRequests:  v.GetBool(flagLogClientRequests),
		LogClientResponses: v.GetBool(flagLogClientResponses),
	}
}

func InitS3Client(ctx context.Context, input *InitS3ClientInput, logger *log.SimpleLogger) *s3.Client {
	clientLogMode := aws.ClientLogMode(0)
	if input.LogClientSigning {
		clientLogMode |= aws.LogSigning
	}
	if input.LogClientRetries {
		clientLogMode |= aws.LogRetries
	}
	if input.LogClientRequests {
		clientLogMode |= aws.LogRequest
	}
	if input.LogClientResponses {
		clientLogMode |= aws.LogResponse
	}

	c := aws.Config{
		ClientLogMode:    clientLogMode,
		RetryMaxAttempts: input.RetryMaxAttempts,
		Region:           input.Region,
		Logger:           log.NewClientLogger(logger),
	}

	if len(input.AccessKeyID) > 0 && len(input.SecretAccessKey) > 0 {
		c.Credentials = credentials.NewStaticCredentialsProvider(
			input.AccessKeyID,
			input.SecretAccessKey,
			input.SessionToken)
	} else {
		sharedConfig, err := config.LoadSharedConfigProfile(ctx, input.Profile)
		if err == nil {
			c.Credentials = credentials.NewStaticCredentialsProvider(
				sharedConfig.Credentials.AccessKeyID,
				sharedConfig.Credentials.SecretAccessKey,
				sharedConfig.Credentials.SessionToken)
		}
	}

	if input.InsecureSkipVerify {
		c.HTTPClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		}
	}

	client := s3.NewFromConfig(c, func(o *s3.Options) {
		o.UsePathStyle = input.UsePathStyle
		if len(input.Endpoint) > 0 {
			o.BaseEndpoint = aws.String(input.Endpoint)
		}
	})

	return client
}

type InitFileSystemInput struct {
	Root                string
	ReadOnly            bool
	MaxDirectoryEntries int
	BucketKeyEnabled    bool
	PartSize            int
	S3Client            *InitS3ClientInput
	Logger              *log.SimpleLogger
}

// InitFileSystem returns the file system rooted at the uri.
func InitFileSystem(ctx context.Context, input *InitFileSystemInput) (fs.FileSystem, error) {
	scheme, p := splitURI(input.Root)
	switch scheme {
	case "", "file":
		if input.ReadOnly {
			return lfs.NewReadOnlyLocalFileSystem(p), nil
		}
		return lfs.NewLocalFileSystem(p), nil
	case "s3":
		parts := s3fs.Split(p)
		if len(parts) == 0 {
			return nil, fmt.Errorf("bucket is missing from uri %q", input.Root)
		}
		bucketName := parts[0]
		prefix := strings.Join(parts[1:], "/")

		client := InitS3Client(ctx, input.S3Client, input.Logger)

		// use a client for the region of the bucket, unless an endpoint is given
		if len(input.S3Client.Endpoint) == 0 {
			getBucketLocationOutput, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
				Bucket: aws.String(bucketName),
			})
			if err == nil {
				bucketRegion := string(getBucketLocationOutput.LocationConstraint)
				if len(bucketRegion) == 0 {
					bucketRegion = "us-east-1"
				}
				if bucketRegion != input.S3Client.Region {
					s3ClientInput := *input.S3Client
					s3ClientInput.Region = bucketRegion
					client = InitS3Client(ctx, &s3ClientInput, input.Logger)
				}
			}
		}

		return s3fs.NewS3FileSystem(
			client,
			bucketName,
			prefix,
			input.MaxDirectoryEntries,
			input.BucketKeyEnabled,
			input.PartSize), nil
	}
	return nil, fmt.Errorf("unsupported scheme %q", scheme)
}

func initLogger(path string, perm string, format string) (*log.SimpleLogger, error) {

	if path == os.DevNull {
		return log.NewSimpleLoggerWithFormat(io.Discard, format)
	}

	if path == "-" {
		return log.NewSimpleLoggerWithFormat(os.Stdout, format)
	}

	fileMode := os.FileMode(0600)

	if len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", path, err)
	}

	return log.NewSimpleLoggerWithFormat(f, format)
}

func formatHumanReadableFileSize(size int64) string {
	str := ""
	if size <= int64(math.Pow(2, 10)) {
		str = fmt.Sprintf("%dB", size)
	} else if size <= int64(math.Pow(2, 20)) {
		f := float64(size) / math.Pow(2, 10)
		if f > 10 {
			str = fmt.Sprintf("%.0fK", f)
		} else {
			str = fmt.Sprintf("%.1fK", f)
		}
	} else if size <= int64(math.Pow(2, 30)) {
		str = fmt.Sprintf("%.0fM", float64(size)/math.Pow(2, 20))
	} else {
		str = fmt.Sprintf("%.0fG", float64(size)/math.Pow(2, 30))
	}
	return fmt.Sprintf("%5s", str)
}

// listEntry is a directory entry with its path relative to the listed directory.
type listEntry struct {
	name string
	fs.DirectoryEntry
}

func (le listEntry) fileType() string {
	switch {
	case le.IsDir():
		return " dir"
	case le.Type()&os.ModeSymlink != 0:
		return "link"
	}
	return "file"
}

// listDirectory reads the directory and, if recursive, its sub-directories breadth-first.
// Entries of each directory are sorted by name.
func listDirectory(ctx context.Context, fileSystem fs.FileSystem, name string, recursive bool, all bool) ([]listEntry, error) {
	listEntries := []listEntry{}
	directories := []string{name}
	for len(directories) > 0 {
		directory := directories[0]
		directories = directories[1:]
		directoryEntries, err := fileSystem.ReadDir(ctx, directory)
		if err != nil {
			return nil, fmt.Errorf("error reading directory %q: %w", directory, err)
		}
		sort.Slice(directoryEntries, func(i, j int) bool {
			return directoryEntries[i].Name() < directoryEntries[j].Name()
		})
		for _, de := range directoryEntries {
			if !all && strings.HasPrefix(de.Name(), ".") {
				continue
			}
			entryPath := fileSystem.Join(directory, de.Name())
			entryName, err := fileSystem.Relative(ctx, name, entryPath)
			if err != nil {
				return nil, fmt.Errorf("error resolving %q relative to %q: %w", entryPath, name, err)
			}
			listEntries = append(listEntries, listEntry{name: entryName, DirectoryEntry: de})
			if recursive && de.IsDir() {
				directories = append(directories, entryPath)
			}
		}
	}
	return listEntries, nil
}

// copySource copies the source directory to the destination directory.
// A source that is a file is copied into the destination directory, which is
// created if it does not exist.
func copySource(ctx context.Context, input *fs.CopyDirectoryInput) error {
	fi, err := input.SourceFileSystem.Stat(ctx, input.SourceDirectory)
	if err == nil && !fi.IsDir() {
		return fs.Copy(ctx, &fs.CopyInput{
			SourceName:            input.SourceDirectory,
			SourceFileSystem:      input.SourceFileSystem,
			DestinationName:       input.DestinationFileSystem.Join(input.DestinationDirectory, fi.Name()),
			DestinationFileSystem: input.DestinationFileSystem,
			Logger:                input.Logger,
			MakeParents:           true,
		})
	}
	return fs.CopyDirectory(ctx, input)
}

// verifySource verifies the destination of copySource and returns the number of verified files.
func verifySource(ctx context.Context, input *fs.VerifyInput) (int, error) {
	fi, err := input.SourceFileSystem.Stat(ctx, input.SourceDirectory)
	if err != nil || fi.IsDir() {
		return fs.Verify(ctx, input)
	}
	destinationName := input.DestinationFileSystem.Join(input.DestinationDirectory, fi.Name())
	sourceBytes, err := fs.ReadFile(ctx, input.SourceFileSystem, input.SourceDirectory)
	if err != nil {
		return 0, err
	}
	destinationBytes, err := fs.ReadFile(ctx, input.DestinationFileSystem, destinationName)
	if err != nil {
		return 0, err
	}
	if !bytes.Equal(sourceBytes, destinationBytes) {
		return 0, fmt.Errorf("contents of destination %q do not match source %q", destinationName, input.SourceDirectory)
	}
	return 1, nil
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   `gocopy [flags]`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"gocopy is a simple command line program for recursively copying a directory specified by URI.",
			"gocopy schemes returns the currently supported schemes.",
			"Local files are specified using the \"file://\" scheme or a path without a scheme.",
			"S3 files are specified using the \"s3://\" scheme.",
		}, "\n"),
	}

	layoutsCommand := &cobra.Command{
		Use:                   `layouts`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported timestamp layouts",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range ts.LayoutNames() {
				fmt.Printf("%s: %s\n", name, ts.NamedLayouts[name])
			}
			return nil
		},
	}

	listCommand := &cobra.Command{
		Use:                   "list [URI]",
		DisableFlagsInUseLine: true,
		Short:                 "list",
		Long:                  "list the directory at the URI",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkListConfig(v, args); errConfig != nil {
				return errConfig
			}

			debug := v.GetBool(flagDebug)
			logFormat := v.GetString(flagLogFormat)

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), logFormat)
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			uri := "."
			if len(args) == 1 {
				uri = args[0]
			}

			if debug {
				fields := map[string]interface{}{
					"root": uri,
				}
				if e := v.GetString(flagAWSS3Endpoint); len(e) > 0 {
					fields["endpoint"] = e
				}
				_ = logger.Log("Creating filesystem", fields)
			}

			fileSystem, err := InitFileSystem(ctx, &InitFileSystemInput{
				Root:                uri,
				ReadOnly:            true,
				MaxDirectoryEntries: v.GetInt(flagMaxDirectoryEntries),
				S3Client:            newInitS3ClientInput(ctx, v, ""),
				Logger:              logger,
			})
			if err != nil {
				return fmt.Errorf("error initializing file system for %q: %w", uri, err)
			}

			timeLayout := ts.ParseLayout(v.GetString(flagTimeLayout))
			timeZone, err := ts.ParseLocation(v.GetString(flagTimeZone))
			if err != nil {
				return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagTimeZone), err)
			}

			humanReadableFileSize := v.GetBool(flagHumanReadableFileSize)

			listEntries, err := listDirectory(ctx, fileSystem, "/", v.GetBool(flagRecursive), v.GetBool(flagAll))
			if err != nil {
				_ = logger.Log("Error listing", map[string]interface{}{
					"uri": uri,
					"err": err.Error(),
				})
				return fmt.Errorf("error listing %q: %w", uri, err)
			}

			switch logFormat {
			case log.FormatText:
				sizeWidth := 5
				if !humanReadableFileSize {
					maxFileSize := int64(0)
					for _, le := range listEntries {
						if size := le.Size(); size > maxFileSize {
							maxFileSize = size
						}
					}
					sizeWidth = len(strconv.FormatInt(maxFileSize, 10))
					if sizeWidth < len("size") {
						sizeWidth = len("size")
					}
				}
				_, _ = fmt.Fprintf(os.Stdout, "%s %*s %*s %s\n",
					"type",
					sizeWidth,
					"size",
					timeLayout.Width(),
					"modified",
					"name",
				)
				for _, le := range listEntries {
					size := fmt.Sprintf("%*d", sizeWidth, le.Size())
					if humanReadableFileSize {
						size = formatHumanReadableFileSize(le.Size())
					}
					_, _ = fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
						le.fileType(),
						size,
						timeLayout.Format(le.ModTime().In(timeZone)),
						le.name)
				}
			case log.FormatJSONL:
				encoder := json.NewEncoder(os.Stdout)
				for _, le := range listEntries {
					m := map[string]any{}
					m["name"] = le.name
					m["mod_time"] = timeLayout.Format(le.ModTime().In(timeZone))
					if humanReadableFileSize {
						m["size"] = strings.TrimSpace(formatHumanReadableFileSize(le.Size()))
					} else {
						m["size"] = le.Size()
					}
					m["type"] = strings.TrimSpace(le.fileType())
					if err := encoder.Encode(m); err != nil {
						return fmt.Errorf("error encoding directory entry %q: %w", le.name, err)
					}
				}
			}

			return nil

		},
	}
	initListCommandFlags(listCommand.Flags())

	copyCommand := &cobra.Command{
		Use:                   "copy SOURCE DESTINATION",
		DisableFlagsInUseLine: true,
		Short:                 "copy",
		Long:                  "recursively copy the source directory into the destination directory, overwriting existing files.\nA source file is copied into the destination directory.",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkCopyConfig(v, args); errConfig != nil {
				return errConfig
			}

			debug := v.GetBool(flagDebug)

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), v.GetString(flagLogFormat))
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			sourceURI := args[0]
			destinationURI := args[1]

			symlinkPolicy, err := fs.ParseSymlinkPolicy(v.GetString(flagSymlinks))
			if err != nil {
				return err
			}

			maxDirectoryEntries := v.GetInt(flagMaxDirectoryEntries)
			bucketKeyEnabled := v.GetBool(flagBucketKeyEnabled)
			partSize := v.GetInt(flagPartSize)

			sourceS3ClientInput := newInitS3ClientInput(ctx, v, prefixSource)
			destinationS3ClientInput := newInitS3ClientInput(ctx, v, prefixDestination)

			if debug {
				_ = logger.Log("Creating filesystems", map[string]interface{}{
					"source":              sourceURI,
					"sourceRegion":        sourceS3ClientInput.Region,
					"sourceEndpoint":      sourceS3ClientInput.Endpoint,
					"destination":         destinationURI,
					"destinationRegion":   destinationS3ClientInput.Region,
					"destinationEndpoint": destinationS3ClientInput.Endpoint,
					"symlinks":            string(symlinkPolicy),
					"partSize":            partSize,
					"maxDirectoryEntries": maxDirectoryEntries,
					"bucketKeyEnabled":    bucketKeyEnabled,
				})
			}

			// the source is never written to
			sourceFileSystem, err := InitFileSystem(ctx, &InitFileSystemInput{
				Root:                sourceURI,
				ReadOnly:            true,
				MaxDirectoryEntries: maxDirectoryEntries,
				PartSize:            partSize,
				S3Client:            sourceS3ClientInput,
				Logger:              logger,
			})
			if err != nil {
				return fmt.Errorf("error initializing file system for source %q: %w", sourceURI, err)
			}

			destinationFileSystem, err := InitFileSystem(ctx, &InitFileSystemInput{
				Root:                destinationURI,
				MaxDirectoryEntries: maxDirectoryEntries,
				BucketKeyEnabled:    bucketKeyEnabled,
				PartSize:            partSize,
				S3Client:            destinationS3ClientInput,
				Logger:              logger,
			})
			if err != nil {
				return fmt.Errorf("error initializing file system for destination %q: %w", destinationURI, err)
			}

			var copyLogger fs.Logger
			if debug {
				copyLogger = logger
			}

			err = copySource(ctx, &fs.CopyDirectoryInput{
				SourceDirectory:       "/",
				SourceFileSystem:      sourceFileSystem,
				DestinationDirectory:  "/",
				DestinationFileSystem: destinationFileSystem,
				Logger:                copyLogger,
				SymlinkPolicy:         symlinkPolicy,
			})
			if err != nil {
				_ = logger.Log("Error copying", map[string]interface{}{
					"source":      sourceURI,
					"destination": destinationURI,
					"err":         err.Error(),
				})
				return fmt.Errorf("error copying %q to %q: %w", sourceURI, destinationURI, err)
			}

			_ = logger.Log("Done copying", map[string]interface{}{
				"source":      sourceFileSystem.Root(),
				"destination": destinationFileSystem.Root(),
			})

			if v.GetBool(flagVerify) {
				count, err := verifySource(ctx, &fs.VerifyInput{
					SourceDirectory:       "/",
					SourceFileSystem:      sourceFileSystem,
					DestinationDirectory:  "/",
					DestinationFileSystem: destinationFileSystem,
					SymlinkPolicy:         symlinkPolicy,
				})
				if err != nil {
					_ = logger.Log("Error verifying", map[string]interface{}{
						"source":      sourceURI,
						"destination": destinationURI,
						"err":         err.Error(),
					})
					return fmt.Errorf("error verifying %q against %q: %w", destinationURI, sourceURI, err)
				}
				_ = logger.Log("Done verifying", map[string]interface{}{
					"source":      sourceFileSystem.Root(),
					"destination": destinationFileSystem.Root(),
					"files":       count,
				})
			}

			return nil

		},
	}
	initCopyCommandFlags(copyCommand.Flags())

	schemesCommand := &cobra.Command{
		Use:                   `schemes`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported schemes",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("file")
			fmt.Println("s3")
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(GoCopyVersion)
			return nil
		},
	}

	rootCommand.AddCommand(layoutsCommand, listCommand, copyCommand, schemesCommand, versionCommand)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCommand.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gocopy: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"gocopy --help\" for more information.")
		os.Exit(1)
	}
}
