package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"skillforge.ai/internal/protocol"
)

type actorTally struct {
	name     string
	byKind   map[string]int
	modSum   float64
	modCount int
}

func main() {
	var (
		outcomesDir = flag.String("outcomes", "", "outcomes dir containing outcomes-*.jsonl.zst")
		fromTick    = flag.Uint64("from_tick", 0, "start at tick (inclusive, optional)")
		toTick      = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *outcomesDir == "" {
		fmt.Fprintln(os.Stderr, "missing -outcomes")
		os.Exit(2)
	}

	files, err := listOutcomeFiles(*outcomesDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list outcomes:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no outcome files in", *outcomesDir)
		os.Exit(1)
	}

	tallies := map[int]*actorTally{}
	var events, minTick, maxTick uint64

	for _, path := range files {
		if err := scanFile(path, func(ev protocol.OutcomeEventMsg) {
			if *fromTick > 0 && ev.Tick < *fromTick {
				return
			}
			if *toTick > 0 && ev.Tick > *toTick {
				return
			}
			events++
			if minTick == 0 || ev.Tick < minTick {
				minTick = ev.Tick
			}
			if ev.Tick > maxTick {
				maxTick = ev.Tick
			}
			t := tallies[ev.ActorSlot]
			if t == nil {
				t = &actorTally{name: ev.ActorName, byKind: map[string]int{}}
				tallies[ev.ActorSlot] = t
			}
			t.byKind[ev.Outcome]++
			if ev.Outcome == "success" || ev.Outcome == "critical" {
				t.modSum += ev.SkillModifier
				t.modCount++
			}
		}); err != nil {
			fmt.Fprintf(os.Stderr, "scan %s: %v\n", filepath.Base(path), err)
			os.Exit(1)
		}
	}

	fmt.Printf("%d outcome events, ticks %d..%d, %d actors\n", events, minTick, maxTick, len(tallies))

	slots := make([]int, 0, len(tallies))
	for slot := range tallies {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	for _, slot := range slots {
		t := tallies[slot]
		avg := 0.0
		if t.modCount > 0 {
			avg = t.modSum / float64(t.modCount)
		}
		fmt.Printf("slot %3d %-24s success=%d critical=%d fumble=%d overload=%d avg_skill=%.3f\n",
			slot, t.name,
			t.byKind["success"], t.byKind["critical"],
			t.byKind["fumble"], t.byKind["attention_overload"],
			avg)
	}
}

func listOutcomeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "outcomes-") && strings.HasSuffix(name, ".jsonl.zst") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

func scanFile(path string, fn func(protocol.OutcomeEventMsg)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev protocol.OutcomeEventMsg
		if err := json.Unmarshal(line, &ev); err != nil {
			return err
		}
		fn(ev)
	}
	return sc.Err()
}
