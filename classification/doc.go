// Package classification labels the dominant ambient sound in a clip.
//
// A backend returns a frames × classes score matrix. The Classifier averages
// each class over all frames, takes the argmax (lowest index on ties) and
// maps it through the Taxonomy loaded from the model's class-map CSV.
package classification
