package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/petrarca/trigram-langid/internal/config"
	"github.com/petrarca/trigram-langid/internal/profiles"
	"github.com/petrarca/trigram-langid/internal/provider"
	"github.com/petrarca/trigram-langid/internal/textio"
	"github.com/petrarca/trigram-langid/internal/trigram"
)

func main() {
	dir := flag.String("profiles", "profiles", "profile directory")
	rounds := flag.Int("rounds", 1000, "identify calls per sample")
	flag.Parse()

	settings := config.LoadSettings()
	start := time.Now()

	t1 := time.Now()
	langs, _, err := profiles.NewLoader(provider.NewFSProvider("."), settings.Filter, nil).Load(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("LoadProfiles: %v (%d languages)\n", time.Since(t1), len(langs))

	identifier := trigram.NewIdentifier(settings.DetectorOptions())
	for _, path := range flag.Args() {
		text, err := textio.ReadFile(path, settings.TextOptions())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		t2 := time.Now()
		profile := identifier.Profile(text)
		fmt.Printf("Profile %s: %v (%d trigrams)\n", path, time.Since(t2), profile.Len())

		t3 := time.Now()
		var best trigram.Score
		for range *rounds {
			best = identifier.Select(profile, langs)
		}
		fmt.Printf("Select %s: %v per call -> %s %.4f\n", path, time.Since(t3)/time.Duration(max(*rounds, 1)), best.Code, best.Score)
	}

	fmt.Printf("\nTotal: %v\n", time.Since(start))
}
