// main.go -- CLI front-end for MinHash LSH near-duplicate detection
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	flag "github.com/opencoff/pflag"

	"github.com/opencoff/go-mhlsh"
)

func main() {
	var b, r, numPerm, nGrams, minLen uint32
	var mainCol, idxCol, inputPath, parquetPath, ufOutput string
	var streaming, progress bool

	usage := fmt.Sprintf("%s [options]", os.Args[0])

	flag.Uint32Var(&b, "b", 50, "Use `B` bands for the LSH schedule")
	flag.Uint32Var(&r, "r", 4, "Use `R` rows per band")
	flag.Uint32Var(&numPerm, "num-perm", 200, "Use `K` permutations")
	flag.Uint32Var(&nGrams, "n-grams", 2, "Use n-gram width `N`")
	flag.Uint32Var(&minLen, "min-len", 5, "Minimum token sequence length `M`")
	flag.StringVar(&mainCol, "main-col", "text", "Name of the text `column`")
	flag.StringVar(&idxCol, "idx-col", "id", "Name of the id `column`")
	flag.StringVar(&inputPath, "input-path", "", "Read input CSV from `path`")
	flag.StringVar(&parquetPath, "parquet-path", "", "Alias for --input-path")
	flag.StringVar(&ufOutput, "uf-output", "uf_output", "Write DSU dump to `path`")
	flag.BoolVar(&streaming, "streaming", false, "Use streaming mode instead of batch mode")
	flag.BoolVar(&progress, "progress", term.IsTerminal(int(os.Stderr.Fd())), "Render a progress bar on stderr")
	flag.Usage = func() {
		fmt.Printf("mhlsh-dedup - near-duplicate detection via MinHash LSH\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()

	if inputPath == "" {
		inputPath = parquetPath
	}
	if inputPath == "" {
		die("no input path given (--input-path)\nUsage: %s\n", usage)
	}

	fd, err := os.Open(inputPath)
	if err != nil {
		die("can't open %s: %s", inputPath, err)
	}
	defer fd.Close()

	reader, err := mhlsh.NewCSVReader(fd, mainCol, idxCol, batchSizeFromEnv())
	if err != nil {
		die("can't read %s: %s", inputPath, err)
	}

	adjB, adjR, k, ok := mhlsh.AdjustBR(b, r, numPerm)
	if !ok {
		warn("b*r (%d) exceeds num-perm (%d); clamped b to %d", b*r, numPerm, adjB)
	}

	cfg := mhlsh.Config{
		NGramWidth: int(nGrams),
		MinLength:  int(minLen),
		B:          adjB,
		R:          adjR,
		K:          k,
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(-1, "deduplicating")
		defer bar.Close()
	}

	ctx := context.Background()

	var summary mhlsh.Summary
	var dsu *mhlsh.DSU
	if streaming {
		_, summary, dsu, err = mhlsh.RunStreaming(ctx, reader, cfg)
	} else {
		_, summary, dsu, err = mhlsh.RunBatch(ctx, reader, cfg)
	}
	if err != nil {
		die("run failed: %s", err)
	}
	if bar != nil {
		bar.Finish()
	}

	if err := dsu.Dump(ufOutput); err != nil {
		die("can't write %s: %s", ufOutput, err)
	}

	warn("%s rows in, %s survivors, dsu written to %s",
		humanize.Comma(int64(summary.Before)), humanize.Comma(int64(summary.After)), ufOutput)

	out, err := json.Marshal(summary)
	if err != nil {
		die("can't marshal summary: %s", err)
	}
	fmt.Println(string(out))
}

// batchSizeFromEnv resolves BATCH_SIZE for the CSV reader's row batches; 0
// defers to the reader's own default.
func batchSizeFromEnv() int {
	v := os.Getenv("BATCH_SIZE")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// die with error
func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", os.Args[0], f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
