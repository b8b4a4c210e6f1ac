// Package xmlnorm normalizes a pull stream of raw XML events.
//
// A Normalizer sits between a tokenizer and the consumer. It applies the
// options of a Config to each raw event: comment suppression, CDATA and
// whitespace conversion to characters, whitespace trimming and merging of
// adjacent character runs. Merging holds at most one pending text run, so the
// normalizer reads ahead by one event.
//
// The normalizer never fails on its own. Errors from the source are returned
// as is and end the stream.
package xmlnorm
