// Command gomachine fits a regressor on a CSV training file and predicts the
// rows of a CSV test file.
//
//	gomachine fit-predict --config knn.yaml --train train.csv --test test.csv --plot out.png
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
