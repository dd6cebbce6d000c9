// Command version_diff fetches two timetable versions from a running API
// instance and prints every cell that differs between them. Useful before
// finalizing: run it against the current selected version and the candidate.
//
//	go run ./scripts/version_diff -base http://localhost:8080 -from 3 -to 5
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type session struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Section string `json:"section"`
}

type roomSchedule struct {
	Room  string `json:"room"`
	Slots []struct {
		Session *session `json:"session"`
	} `json:"slots"`
}

type daySchedule struct {
	Day   string         `json:"day"`
	Rooms []roomSchedule `json:"rooms"`
}

type versionPayload struct {
	Data struct {
		Version int           `json:"version"`
		Grid    []daySchedule `json:"grid"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type cellDiff struct {
	Day, Room, Slot string
	From, To        string
}

func main() {
	var (
		base    string
		prefix  string
		from    int
		to      int
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.IntVar(&from, "from", 0, "Baseline version number")
	flag.IntVar(&to, "to", 0, "Candidate version number")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	if from <= 0 || to <= 0 {
		log.Fatal("both -from and -to must be positive version numbers")
	}

	client := &http.Client{Timeout: timeout}
	baseline, err := fetchVersion(client, base, prefix, from)
	if err != nil {
		log.Fatalf("failed to fetch version %d: %v", from, err)
	}
	candidate, err := fetchVersion(client, base, prefix, to)
	if err != nil {
		log.Fatalf("failed to fetch version %d: %v", to, err)
	}

	diffs := diffGrids(baseline, candidate)
	if len(diffs) == 0 {
		fmt.Printf("versions %d and %d are identical\n", from, to)
		return
	}

	fmt.Printf("%d cell(s) differ between version %d and version %d:\n\n", len(diffs), from, to)
	for _, d := range diffs {
		fmt.Printf("  %-9s %-12s %-12s %s -> %s\n", d.Day, d.Room, d.Slot, d.From, d.To)
	}
	os.Exit(1)
}

func fetchVersion(client *http.Client, base, prefix string, version int) ([]daySchedule, error) {
	url := fmt.Sprintf("%s%s/timetable/versions/%d", base, prefix, version)
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload versionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("%s: %s", payload.Error.Code, payload.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return payload.Data.Grid, nil
}

// timeSlots mirrors the canonical slot labels served by the API.
var timeSlots = []string{
	"9:30-10:30", "10:30-11:30", "11:30-12:30", "12:30-1:30",
	"1:30-2:30", "2:30-3:30", "3:30-4:30",
}

func diffGrids(baseline, candidate []daySchedule) []cellDiff {
	type key struct{ day, room, slot string }
	cells := func(grid []daySchedule) map[key]string {
		out := map[key]string{}
		for _, day := range grid {
			for _, rs := range day.Rooms {
				for i, slot := range rs.Slots {
					if i >= len(timeSlots) {
						break
					}
					out[key{day.Day, rs.Room, timeSlots[i]}] = renderSession(slot.Session)
				}
			}
		}
		return out
	}

	before := cells(baseline)
	after := cells(candidate)

	var diffs []cellDiff
	for _, day := range candidate {
		for _, rs := range day.Rooms {
			for i := range rs.Slots {
				if i >= len(timeSlots) {
					break
				}
				k := key{day.Day, rs.Room, timeSlots[i]}
				if before[k] != after[k] {
					diffs = append(diffs, cellDiff{
						Day: k.day, Room: k.room, Slot: k.slot,
						From: orEmpty(before[k]), To: orEmpty(after[k]),
					})
				}
				delete(before, k)
			}
		}
	}
	// Cells present only in the baseline (rooms removed in the candidate).
	for k, v := range before {
		if v == "" {
			continue
		}
		diffs = append(diffs, cellDiff{Day: k.day, Room: k.room, Slot: k.slot, From: v, To: "(removed)"})
	}
	return diffs
}

func renderSession(s *session) string {
	if s == nil {
		return ""
	}
	label := s.Subject
	if label == "" {
		label = "Unknown"
	}
	if s.Section != "" {
		label = fmt.Sprintf("%s (%s)", label, s.Section)
	}
	teacher := s.Teacher
	if teacher == "" {
		teacher = "No Faculty"
	}
	return fmt.Sprintf("%s / %s", label, teacher)
}

func orEmpty(v string) string {
	if v == "" {
		return "(empty)"
	}
	return v
}
