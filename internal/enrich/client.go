package enrich

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// reObject tolerates log chatter around each JSON object on a line.
var reObject = regexp.MustCompile(`\{.*\}`)

// batchRequest is the wire shape the canonicalization service accepts.
type batchRequest struct {
	Rows []batchRow `json:"rows"`
}

type batchRow struct {
	Program string `json:"program"`
}

// labelLine accepts both the modern canonical key names and the legacy
// hyphenated ones. The dual-key tolerance is part of the service
// contract, not a convenience.
type labelLine struct {
	LLMProgram    string `json:"llm-generated-program"`
	ProgramCanon  string `json:"program_canon"`
	StdProgram    string `json:"standardized_program"`
	LLMUniversity string `json:"llm-generated-university"`
	UnivCanon     string `json:"university_canon"`
	StdUniversity string `json:"standardized_university"`
}

func (l labelLine) toLabel() Label {
	return Label{
		Program:    firstNonEmpty(l.LLMProgram, l.ProgramCanon, l.StdProgram),
		University: firstNonEmpty(l.LLMUniversity, l.UnivCanon, l.StdUniversity),
	}
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// parseJSONL reads line-delimited label objects. Unparsable lines are
// skipped rather than failing the batch.
func parseJSONL(body string) []Label {
	var labels []Label
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if m := reObject.FindString(line); m != "" {
			line = m
		}
		var ll labelLine
		if err := json.Unmarshal([]byte(line), &ll); err != nil {
			continue
		}
		labels = append(labels, ll.toLabel())
	}
	return labels
}

// HTTPClient talks to an HTTP-hosted canonicalization service that
// answers a JSON batch request with JSONL labels.
type HTTPClient struct {
	URL    string
	client *resty.Client
}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPClient{
		URL:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

func (c *HTTPClient) CanonizeBatch(ctx context.Context, texts []string) ([]Label, error) {
	req := batchRequest{Rows: make([]batchRow, len(texts))}
	for i, t := range texts {
		req.Rows[i] = batchRow{Program: t}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.URL)
	if err != nil {
		return nil, fmt.Errorf("canonicalize request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("canonicalize request: status %d", resp.StatusCode())
	}
	return parseJSONL(resp.String()), nil
}

// CommandClient shells out to a local model runner: the batch goes to
// a temp in.json, the runner writes out.jsonl, and both disappear with
// the temp dir.
type CommandClient struct {
	Dir     string   // working directory of the runner
	Argv    []string // command and fixed args; file paths are appended
	Timeout time.Duration
}

func (c *CommandClient) CanonizeBatch(ctx context.Context, texts []string) ([]Label, error) {
	if len(c.Argv) == 0 {
		return nil, fmt.Errorf("canonicalize command not configured")
	}

	tmp, err := os.MkdirTemp("", "gradpulse-llm-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	inPath := filepath.Join(tmp, "in.json")
	outPath := filepath.Join(tmp, "out.jsonl")

	req := batchRequest{Rows: make([]batchRow, len(texts))}
	for i, t := range texts {
		req.Rows[i] = batchRow{Program: t}
	}
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(inPath, b, 0o644); err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, c.Argv[1:]...), "--file", inPath, "--out", outPath)
	cmd := exec.CommandContext(cctx, c.Argv[0], args...)
	cmd.Dir = c.Dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("canonicalize command: %w (output: %s)", err, firstLines(string(out), 12))
	}

	body, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("canonicalize output missing: %w", err)
	}
	return parseJSONL(string(body)), nil
}

func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
