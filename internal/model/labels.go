package model

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed imagenet_classes.txt
var imagenetClasses string

// Labels is the ImageNet class table the DenseNet-201 weights were trained
// on. It is built once at init and never mutated.
var Labels = parseLabels(imagenetClasses)

func parseLabels(raw string) []string {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	labels := make([]string, 0, len(lines))
	for _, line := range lines {
		labels = append(labels, strings.TrimSpace(line))
	}
	return labels
}

// Resolve maps a class index onto table. Indices are 1-based: index 1 is
// table[0] and index 0 never resolves.
func Resolve(table []string, index uint32) (string, error) {
	if index == 0 || int(index) > len(table) {
		return "", fmt.Errorf("%w: %d not in [1, %d]", ErrIndexOutOfRange, index, len(table))
	}
	return table[index-1], nil
}
