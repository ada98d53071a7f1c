package stylometry

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/stylo-ml/stylo/pkg/errors"
)

// LabelEncoder maps author names to dense integer labels in [0, C),
// assigned in sorted name order.
type LabelEncoder struct {
	names   []string
	indices map[string]int
}

// NewLabelEncoder builds an encoder over the distinct names.
func NewLabelEncoder(names []string) *LabelEncoder {
	seen := make(map[string]bool)
	var distinct []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			distinct = append(distinct, name)
		}
	}
	sort.Strings(distinct)

	indices := make(map[string]int, len(distinct))
	for i, name := range distinct {
		indices[name] = i
	}
	return &LabelEncoder{names: distinct, indices: indices}
}

// Transform returns the label for an author name.
func (le *LabelEncoder) Transform(name string) (int, error) {
	label, ok := le.indices[name]
	if !ok {
		return 0, errors.Newf("stylo: unknown author %q", name)
	}
	return label, nil
}

// InverseTransform returns the author name for a label.
func (le *LabelEncoder) InverseTransform(label int) (string, error) {
	if label < 0 || label >= len(le.names) {
		return "", errors.Newf("stylo: label %d out of range [0, %d)", label, len(le.names))
	}
	return le.names[label], nil
}

// Classes returns the author names in label order.
func (le *LabelEncoder) Classes() []string {
	return le.names
}

// LoadCorpus walks a corpus directory whose immediate subdirectories name
// the authors and whose files are their documents, extracting one feature
// vector per document. Returns the feature matrix, the label vector and
// the label encoder.
func LoadCorpus(dir string, opts Options) (*mat.Dense, []int, *LabelEncoder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "read corpus directory %s", dir)
	}

	type document struct {
		author string
		path   string
	}
	var documents []document
	var authors []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		author := entry.Name()
		files, err := os.ReadDir(filepath.Join(dir, author))
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "read author directory %s", author)
		}
		found := false
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			documents = append(documents, document{author: author, path: filepath.Join(dir, author, file.Name())})
			found = true
		}
		if found {
			authors = append(authors, author)
		}
	}
	if len(documents) == 0 {
		return nil, nil, nil, errors.Newf("stylo: no documents found under %s", dir)
	}

	encoder := NewLabelEncoder(authors)
	width := NumFeatures(opts)
	X := mat.NewDense(len(documents), width, nil)
	y := make([]int, len(documents))

	for i, doc := range documents {
		raw, err := os.ReadFile(doc.path)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "read document %s", doc.path)
		}

		features, _, err := ExtractFeatures(ExtractBookContents(string(raw)), opts)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "extract features from %s", doc.path)
		}
		X.SetRow(i, features)

		label, err := encoder.Transform(doc.author)
		if err != nil {
			return nil, nil, nil, err
		}
		y[i] = label
	}

	return X, y, encoder, nil
}

// SaveFeatures writes one line per document: the author name, the integer
// label and the comma-separated feature values, tab-separated.
func SaveFeatures(path string, X *mat.Dense, y []int, encoder *LabelEncoder) error {
	rows, _ := X.Dims()
	if rows != len(y) {
		return errors.NewDimensionError("SaveFeatures", rows, len(y), 0)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create features file %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < rows; i++ {
		name, err := encoder.InverseTransform(y[i])
		if err != nil {
			return err
		}

		row := X.RawRowView(i)
		values := make([]string, len(row))
		for j, v := range row {
			values[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if _, err := fmt.Fprintf(w, "%s\t%d\t%s\n", name, y[i], strings.Join(values, ", ")); err != nil {
			return errors.Wrapf(err, "write features file %s", path)
		}
	}
	return errors.Wrapf(w.Flush(), "flush features file %s", path)
}

// LoadFeatures reads a features file written by SaveFeatures. The third
// return value holds the author names in label order, recovered from the
// file's name column.
func LoadFeatures(path string) (*mat.Dense, []int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "open features file %s", path)
	}
	defer f.Close()

	var rows [][]float64
	var y []int
	byLabel := make(map[int]string)
	maxLabel := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			return nil, nil, nil, errors.Newf("stylo: malformed features line %d: expected 3 tab-separated fields, got %d", len(y)+1, len(parts))
		}

		label, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "parse label on line %d", len(y)+1)
		}
		if label < 0 {
			return nil, nil, nil, errors.Newf("stylo: negative label %d on line %d", label, len(y)+1)
		}
		byLabel[label] = parts[0]
		if label > maxLabel {
			maxLabel = label
		}

		fields := strings.Split(parts[2], ",")
		row := make([]float64, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, nil, errors.Wrapf(err, "parse feature %d on line %d", j, len(y)+1)
			}
			row[j] = v
		}

		rows = append(rows, row)
		y = append(y, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "read features file %s", path)
	}
	if len(rows) == 0 {
		return nil, nil, nil, errors.Wrap(errors.ErrEmptyData, "LoadFeatures")
	}

	classNames := make([]string, maxLabel+1)
	for label := range classNames {
		if name, ok := byLabel[label]; ok {
			classNames[label] = name
		} else {
			classNames[label] = fmt.Sprintf("author %d", label)
		}
	}

	width := len(rows[0])
	X := mat.NewDense(len(rows), width, nil)
	for i, row := range rows {
		if len(row) != width {
			return nil, nil, nil, errors.NewDimensionError("LoadFeatures", width, len(row), 1)
		}
		X.SetRow(i, row)
	}
	return X, y, classNames, nil
}
