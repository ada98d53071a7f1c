// Package stylo attributes authorship of documents using shallow
// stylometric features and a two-phase hybrid ensemble classifier.
//
// The hybrid procedure trades recall for precision: a one-vs-rest
// ensemble assigns only the samples exactly one estimator claims, and a
// one-vs-one ensemble resolves the rest by pairwise voting, abstaining on
// ties instead of guessing.
//
// # Quick Start
//
//	X, y, names, _ := stylometry.LoadFeatures("bookfeatures.txt")
//	factory := func() model.BinaryClassifier {
//	    return linear_model.NewLinearSVC()
//	}
//	summary, err := hybrid.Evaluate(X, y, factory, hybrid.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("accuracy: %.3f (+/- %.3f)\n",
//	    summary.Accuracy.Mean, summary.Accuracy.StdErr)
//
// The packages are organized as:
//
//   - hybrid: fold splitting, the OVR/OVO ensembles, the two decision
//     phases and the fold aggregator
//   - linear_model: the LinearSVC and LogisticRegression binary estimators
//   - preprocessing: per-fold min-max scaling and feature selection
//   - stylometry: feature extraction and corpus handling
//   - metrics, plot: evaluation metrics and diagnostic charts
package stylo
