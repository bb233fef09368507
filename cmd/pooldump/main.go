// Command pooldump loads a delimited pool file, prints a summary of what was
// parsed and optionally writes a histogram PNG for one feature.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lekhraj-d/catboost/pool"
)

func main() {
	poolPath := flag.String("pool", "", "path to the pool file (required)")
	cdPath := flag.String("cd", "", "path to the column description file")
	pairsPath := flag.String("pairs", "", "path to the pairs file")
	delimiter := flag.String("delimiter", "\t", "field delimiter (single character)")
	hasHeader := flag.Bool("has-header", false, "treat the first line as a header")
	classNames := flag.String("classes", "", "comma-separated class names for classification labels")
	ignored := flag.String("ignore", "", "comma-separated feature indices to ignore")
	blockSize := flag.Int("block-size", 0, "lines per read block (0 = default)")
	histFeature := flag.Int("hist", -1, "feature index to histogram (-1 = none)")
	histOut := flag.String("hist-out", "hist.png", "output path for the histogram PNG")
	flag.Parse()

	if *poolPath == "" {
		log.Fatal("missing required -pool flag")
	}
	if len(*delimiter) != 1 {
		log.Fatalf("delimiter must be a single character, got %q", *delimiter)
	}

	ignoredFeatures, err := parseIntList(*ignored)
	if err != nil {
		log.Fatalf("bad -ignore list: %v", err)
	}

	opts := pool.Options{
		Delimiter:             (*delimiter)[0],
		HasHeader:             *hasHeader,
		ColumnDescriptionPath: *cdPath,
		PairsPath:             *pairsPath,
		IgnoredFeatures:       ignoredFeatures,
		BlockSize:             *blockSize,
	}
	if *classNames != "" {
		opts.ClassNames = strings.Split(*classNames, ",")
	}

	p, err := pool.LoadPool(*poolPath, opts)
	if err != nil {
		log.Fatalf("failed to load pool: %v", err)
	}

	printSummary(p)

	if *histFeature >= 0 {
		if err := plotHistogram(p, *histFeature, *histOut); err != nil {
			log.Fatalf("failed to plot histogram: %v", err)
		}
		log.Printf("wrote histogram of feature %d to %s", *histFeature, *histOut)
	}
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printSummary(p *pool.Pool) {
	m := p.Meta
	log.Printf("documents: %d", p.DocCount())
	log.Printf("columns: %d, features: %d (%d categorical), baselines: %d",
		m.ColumnCount, m.FeatureCount, len(p.CatFeatures), m.BaselineCount)
	log.Printf("group ids: %v, subgroup ids: %v, timestamps: %v, weights: %v",
		m.HasGroupID, m.HasSubgroupID, m.HasTimestamp, m.HasWeights)
	if len(p.FeatureIDs) > 0 {
		log.Printf("feature ids: %s", strings.Join(p.FeatureIDs, ", "))
	}
	if len(p.Pairs) > 0 {
		log.Printf("pairs: %d", len(p.Pairs))
	}
}

// plotHistogram writes a PNG with the value distribution of one feature.
// NaN values (missing tokens) are skipped.
func plotHistogram(p *pool.Pool, featureID int, outPath string) error {
	if featureID >= p.Meta.FeatureCount {
		return fmt.Errorf("feature index %d out of range [0, %d)", featureID, p.Meta.FeatureCount)
	}

	values := make(plotter.Values, 0, p.DocCount())
	for _, row := range p.Features {
		v := float64(row[featureID])
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return fmt.Errorf("feature %d has no non-missing values", featureID)
	}

	pl := plot.New()
	name := strconv.Itoa(featureID)
	if featureID < len(p.FeatureIDs) {
		name = p.FeatureIDs[featureID]
	}
	pl.Title.Text = fmt.Sprintf("Feature %s", name)
	pl.X.Label.Text = "value"
	pl.Y.Label.Text = "count"

	h, err := plotter.NewHist(values, 32)
	if err != nil {
		return err
	}
	pl.Add(h)

	return pl.Save(8*vg.Inch, 6*vg.Inch, outPath)
}
