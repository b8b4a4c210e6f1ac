// Package xmlevent defines the event variant shared by the raw tokenizer and
// the normalizer: the same shape flows in and out of normalization.
package xmlevent
