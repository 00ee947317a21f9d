package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"github.com/aws/aws-sdk-go/aws/session"
	huffman "github.com/brenovambaster/huffman-compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

// suffix is appended to the name of an input file to obtain the name of
// the compressed file.
const suffix = ".huf"

type compressFlags struct {
	Output      string `subcmd:"output,,'output file or s3 path, defaults to the input file with a .huf suffix'"`
	Concurrency int    `subcmd:"concurrency,4,'number of files to compress concurrently'"`
	Progress    bool   `subcmd:"progress,true,display a progress bar"`
	Verbose     bool   `subcmd:"verbose,false,verbose debug/trace information"`
}

type decompressFlags struct {
	Output   string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
	Progress bool   `subcmd:"progress,true,display a progress bar"`
	Verbose  bool   `subcmd:"verbose,false,verbose debug/trace information"`
}

type inspectFlags struct {
	Codes bool `subcmd:"codes,true,display the code for each symbol"`
}

var cmdSet *subcmd.CommandSet

func init() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})

	compressFS := subcmd.NewFlagSet()
	compressFS.MustRegisterFlagStruct(&compressFlags{},
		map[string]interface{}{
			"concurrency": runtime.GOMAXPROCS(-1),
		}, nil)
	compressCmd := subcmd.NewCommand("compress", compressFS, compress, subcmd.AtLeastNArguments(1))
	compressCmd.Document("compress one or more files, s3 paths or urls", "<input>...")

	decompressFS := subcmd.NewFlagSet()
	decompressFS.MustRegisterFlagStruct(&decompressFlags{}, nil, nil)
	decompressCmd := subcmd.NewCommand("decompress", decompressFS, decompress, subcmd.ExactlyNumArguments(1))
	decompressCmd.Document("decompress a file, s3 path or url", "<input>")

	inspectFS := subcmd.NewFlagSet()
	inspectFS.MustRegisterFlagStruct(&inspectFlags{}, nil, nil)
	inspectCmd := subcmd.NewCommand("inspect", inspectFS, inspect, subcmd.AtLeastNArguments(1))
	inspectCmd.Document("display the header and code table of compressed files", "<input>...")

	cmdSet = subcmd.NewCommandSet(compressCmd, decompressCmd, inspectCmd)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

type progressBar struct {
	ch chan huffman.Progress
	wr io.Writer
	wg sync.WaitGroup
}

// newProgressBar displays a progress bar for size bytes. update may be
// called concurrently.
func newProgressBar(wr io.Writer, size int64) *progressBar {
	pb := &progressBar{ch: make(chan huffman.Progress, 100), wr: wr}
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetBytes64(size),
		progressbar.OptionSetWriter(wr),
		progressbar.OptionSetPredictTime(true))
	bar.RenderBlank()
	pb.wg.Add(1)
	go func() {
		defer pb.wg.Done()
		for p := range pb.ch {
			bar.Add(p.Bytes)
		}
	}()
	return pb
}

func (pb *progressBar) update(p huffman.Progress) {
	pb.ch <- p
}

func (pb *progressBar) finish() {
	close(pb.ch)
	pb.wg.Wait()
	fmt.Fprintf(pb.wr, "\n")
}

// progressOutput returns the writer that a progress bar should be
// displayed on, or false if none should be displayed. stdoutUsed is true
// when stdout is receiving decompressed data.
func progressOutput(enabled, stdoutUsed bool) (io.Writer, bool) {
	if !enabled {
		return nil, false
	}
	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	if stdoutUsed && isTTY {
		return nil, false
	}
	if !isTTY {
		return os.Stderr, true
	}
	return os.Stdout, true
}

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

func httpGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%v: %v", url, resp.Status)
	}
	return resp, nil
}

func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if isURL(name) {
		resp, err := httpGet(ctx, name)
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body,
			resp.ContentLength,
			func(context.Context) error {
				resp.Body.Close()
				return nil
			},
			nil
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	file, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return file.Reader(ctx), info.Size(), file.Close, nil
}

func createFile(ctx context.Context, name string) (io.Writer, func(context.Context) error, error) {
	if len(name) == 0 {
		return os.Stdout,
			func(context.Context) error {
				return nil
			},
			nil
	}
	file, err := file.Create(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return file.Writer(ctx), file.Close, nil
}

// seekableInput returns the name of a file that can be read twice. A url
// is downloaded to a temporary file, which is removed by the returned
// cleanup function.
func seekableInput(ctx context.Context, name string) (string, func(), error) {
	if !isURL(name) {
		return name, func() {}, nil
	}
	resp, err := httpGet(ctx, name)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	tmp, err := os.CreateTemp("", "huffz-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("%v: %v", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

func outputName(input string) string {
	if isURL(input) {
		return path.Base(strings.SplitN(input, "?", 2)[0]) + suffix
	}
	return input + suffix
}

// inputSize returns the number of bytes that compressing the inputs
// will read, ie. twice their size.
func inputSize(ctx context.Context, inputs []string) int64 {
	var total int64
	for _, name := range inputs {
		if info, err := file.Stat(ctx, name); err == nil {
			total += 2 * info.Size()
		}
	}
	return total
}

func compress(ctx context.Context, values interface{}, args []string) error {
	fv := values.(*compressFlags)
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	if len(args) > 1 && len(fv.Output) > 0 {
		return fmt.Errorf("--output cannot be used with more than one input")
	}

	inputs := make([]string, len(args))
	outputs := make([]string, len(args))
	for i, arg := range args {
		name, cleanup, err := seekableInput(ctx, arg)
		if err != nil {
			return err
		}
		defer cleanup()
		inputs[i], outputs[i] = name, outputName(arg)
	}
	if len(fv.Output) > 0 {
		outputs[0] = fv.Output
	}

	opts := []huffman.Option{huffman.Verbose(fv.Verbose)}
	var bar *progressBar
	if wr, ok := progressOutput(fv.Progress, false); ok {
		if size := inputSize(ctx, inputs); size > 0 {
			bar = newProgressBar(wr, size)
			opts = append(opts, huffman.ProgressFunc(bar.update))
		}
	}

	var onDone func(huffman.BatchResult)
	if fv.Verbose {
		onDone = func(r huffman.BatchResult) {
			log.Printf("%v: done in %v", r.Input, r.Duration)
		}
	}
	batch := huffman.NewBatch(ctx, fv.Concurrency, onDone, opts...)
	for i := range inputs {
		batch.Add(inputs[i], outputs[i])
	}
	results, err := batch.Finish()
	if bar != nil {
		bar.finish()
	}
	for i, r := range results {
		if r.Err == nil {
			fmt.Printf("%v -> %v: %v\n", args[i], r.Output, r.Stats)
		}
	}
	return err
}

func decompress(ctx context.Context, values interface{}, args []string) (returnErr error) {
	fv := values.(*decompressFlags)
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	input := args[0]
	rd, size, readerCleanup, err := openFileOrURL(ctx, input)
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	wr, writerCleanup, err := createFile(ctx, fv.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := writerCleanup(ctx); err != nil {
			log.Printf("writer cleanup: %v", err)
			if returnErr == nil {
				returnErr = err
			}
		}
		if returnErr != nil && len(fv.Output) > 0 {
			file.Remove(ctx, fv.Output) // nolint: errcheck
		}
	}()

	opts := []huffman.Option{huffman.Verbose(fv.Verbose)}
	var bar *progressBar
	if pwr, ok := progressOutput(fv.Progress, len(fv.Output) == 0); ok && size > 0 {
		bar = newProgressBar(pwr, size)
		opts = append(opts, huffman.ProgressFunc(bar.update))
	}
	stats, err := huffman.Decompress(&ctxReader{ctx: ctx, rd: rd}, wr, opts...)
	if bar != nil {
		bar.finish()
	}
	if err != nil {
		return fmt.Errorf("%v: %w", input, err)
	}
	if len(fv.Output) > 0 {
		fmt.Printf("%v -> %v: %v\n", input, fv.Output, stats)
	}
	return nil
}

// ctxReader stops reading once its context is canceled.
type ctxReader struct {
	ctx context.Context
	rd  io.Reader
}

func (r *ctxReader) Read(buf []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.rd.Read(buf)
}
