// Command cachetreedemo builds a small FilterTree over the samples package's
// RangePredicate/ConstPredicate pipeline and reports match counts for a couple of
// worked inputs, the way the original demo's Main class does.
package main

import (
	"compress/flate"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/bisdreamz/caching-filter-tree"
	"github.com/bisdreamz/caching-filter-tree/cache"
	"github.com/bisdreamz/caching-filter-tree/samples"
)

func main() {
	poolSize := flag.Int("pool", 50, "number of sample candidates to generate")
	auditLogPath := flag.String("audit-log", "", "if set, write a gzip-compressed run log to this path")
	flag.Parse()

	pool := samples.SampleRandomPool(*poolSize, rand.New(rand.NewSource(1)))
	candidates := make([]samples.Output, len(pool))
	copy(candidates, pool)

	pipeline, err := cachetree.NewPipeline(
		mustStep(cachetree.NewPipelineStep[samples.Input, samples.Output](
			samples.RangePredicate{}, cache.NewMapCache[samples.Input, samples.Output]())),
		mustStep(cachetree.NewPipelineStep[samples.Input, samples.Output](
			samples.ConstPredicate{}, cache.NewMapCache[samples.Input, samples.Output]())),
	)
	if err != nil {
		log.Fatalf("building pipeline: %v", err)
	}

	tree, err := cachetree.New(pipeline, candidates)
	if err != nil {
		log.Fatalf("building tree: %v", err)
	}

	var audit *auditLog
	if *auditLogPath != "" {
		audit, err = newAuditLog(*auditLogPath)
		if err != nil {
			log.Fatalf("opening audit log: %v", err)
		}
		defer audit.Close()
	}

	inputs := map[string]samples.Input{
		"sample-one": samples.SampleOne(),
		"sample-two": samples.SampleTwo(),
	}
	for name, input := range inputs {
		matched, err := tree.Matches(input)
		if err != nil {
			log.Fatalf("matching %s: %v", name, err)
		}
		fmt.Printf("%s: %d/%d candidates matched\n", name, matched.Len(), len(candidates))
		if audit != nil {
			audit.Logf("%s: %d/%d matched", name, matched.Len(), len(candidates))
		}
	}
}

func mustStep(step cachetree.PipelineStep[samples.Input, samples.Output], err error) cachetree.PipelineStep[samples.Input, samples.Output] {
	if err != nil {
		log.Fatalf("building pipeline step: %v", err)
	}
	return step
}

// auditLog writes gzip-compressed run output, exercising klauspost/compress the way the
// teacher module uses it for on-disk artifacts.
type auditLog struct {
	f  *os.File
	gz *gzip.Writer
}

func newAuditLog(path string) (*auditLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewWriterLevel(f, flate.BestSpeed)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &auditLog{f: f, gz: gz}, nil
}

func (a *auditLog) Logf(format string, args ...any) {
	fmt.Fprintf(a.gz, format+"\n", args...)
}

func (a *auditLog) Close() error {
	if err := a.gz.Close(); err != nil {
		a.f.Close()
		return err
	}
	return a.f.Close()
}
