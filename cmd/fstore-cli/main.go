package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"

	"fstore/pkg/models"
)

const (
	defaultServerURL   = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 2 * time.Minute
	defaultRetryMax    = 3
)

type config struct {
	serverURL string
	token     string
	timeout   time.Duration
}

// storeClient wraps the HTTP plumbing shared by every subcommand.
type storeClient struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
}

func newStoreClient(cfg config) *storeClient {
	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.HTTPClient.Timeout = cfg.timeout
	client.Logger = nil

	return &storeClient{
		baseURL:    strings.TrimRight(cfg.serverURL, "/"),
		token:      cfg.token,
		httpClient: client,
	}
}

// doRequest performs an HTTP request with common error handling.
func (c *storeClient) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, fmt.Errorf("request returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}

// doJSON performs a request and unmarshals the JSON response.
func (c *storeClient) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, result interface{}) error {
	respBody, err := c.doRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}

func main() {
	server := flag.String("server", defaultServerURL, "File store server base URL")
	token := flag.String("token", os.Getenv("FSTORE_TOKEN"), "Bearer token (defaults to FSTORE_TOKEN)")
	timeout := flag.Duration("http-timeout", defaultHTTPTimeout, "HTTP client timeout")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <command> [args]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  register <username> <password>   Create an account\n")
		fmt.Fprintf(os.Stderr, "  login <username> <password>      Print a bearer token\n")
		fmt.Fprintf(os.Stderr, "  upload <path>                    Upload a local file\n")
		fmt.Fprintf(os.Stderr, "  list [skip [limit]]              List stored files\n")
		fmt.Fprintf(os.Stderr, "  download <name> [dest]           Download a stored file\n")
		fmt.Fprintf(os.Stderr, "  delete <name>                    Delete a stored file\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	client := newStoreClient(config{
		serverURL: *server,
		token:     *token,
		timeout:   *timeout,
	})

	ctx := context.Background()
	if err := runCommand(ctx, client, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fstore-cli: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, client *storeClient, command string, args []string) error {
	switch command {
	case "register":
		return cmdRegister(ctx, client, args)
	case "login":
		return cmdLogin(ctx, client, args)
	case "upload":
		return cmdUpload(ctx, client, args)
	case "list":
		return cmdList(ctx, client, args)
	case "download":
		return cmdDownload(ctx, client, args)
	case "delete":
		return cmdDelete(ctx, client, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func credentialsJSON(args []string) (*bytes.Buffer, error) {
	if len(args) != 2 {
		return nil, errors.New("expected <username> <password>")
	}
	payload, err := json.Marshal(map[string]string{
		"username": args[0],
		"password": args[1],
	})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}
	return bytes.NewBuffer(payload), nil
}

func cmdRegister(ctx context.Context, client *storeClient, args []string) error {
	body, err := credentialsJSON(args)
	if err != nil {
		return err
	}

	var user models.User
	if err := client.doJSON(ctx, http.MethodPost, "/api/auth/register", body, "application/json", &user); err != nil {
		return err
	}

	fmt.Printf("registered %s (id %d)\n", user.Username, user.ID)
	return nil
}

func cmdLogin(ctx context.Context, client *storeClient, args []string) error {
	body, err := credentialsJSON(args)
	if err != nil {
		return err
	}

	var token models.TokenResponse
	if err := client.doJSON(ctx, http.MethodPost, "/api/auth/login", body, "application/json", &token); err != nil {
		return err
	}

	// Print the raw token so it can be captured into FSTORE_TOKEN.
	fmt.Println(token.AccessToken)
	return nil
}

func cmdUpload(ctx context.Context, client *storeClient, args []string) error {
	if len(args) != 1 {
		return errors.New("expected <path>")
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(args[0]))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	var resp models.UploadResponse
	if err := client.doJSON(ctx, http.MethodPost, "/api/files/upload", &buf, writer.FormDataContentType(), &resp); err != nil {
		return err
	}

	fmt.Printf("uploaded %s (%s)\n", resp.Filename, humanize.IBytes(uint64(resp.Size)))
	return nil
}

func cmdList(ctx context.Context, client *storeClient, args []string) error {
	query := url.Values{}
	if len(args) > 0 {
		query.Set("skip", args[0])
	}
	if len(args) > 1 {
		query.Set("limit", args[1])
	}

	path := "/api/files"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp models.FileListResponse
	if err := client.doJSON(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return err
	}

	if len(resp.Files) == 0 {
		fmt.Println("no files")
		return nil
	}

	for _, f := range resp.Files {
		fmt.Printf("%-40s %10s  %s\n", f.Filename,
			humanize.IBytes(uint64(f.Size)),
			f.UploadDate.Local().Format(time.RFC3339))
	}
	return nil
}

func cmdDownload(ctx context.Context, client *storeClient, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("expected <name> [dest]")
	}

	name := args[0]
	dest := filepath.Base(name)
	if len(args) == 2 {
		dest = args[1]
	}

	body, err := client.doRequest(ctx, http.MethodGet, "/api/files/"+url.PathEscape(name), nil, "")
	if err != nil {
		return err
	}

	if err := os.WriteFile(dest, body, 0o640); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	fmt.Printf("downloaded %s (%s) to %s\n", name, humanize.IBytes(uint64(len(body))), dest)
	return nil
}

func cmdDelete(ctx context.Context, client *storeClient, args []string) error {
	if len(args) != 1 {
		return errors.New("expected <name>")
	}

	if _, err := client.doRequest(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(args[0]), nil, ""); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", args[0])
	return nil
}
