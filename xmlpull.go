// Package xmlpull is a pull XML reader with a configurable normalization layer.
//
// A Reader pairs the raw tokenizer from pkg/xmllex with the normalizer from
// pkg/xmlnorm. Callers pull events one at a time with Next, or range over All:
//
//	cfg := xmlnorm.NewConfig().WithTrimWhitespace(true)
//	r, err := xmlpull.NewReader(f, cfg)
//	if err != nil {
//		return err
//	}
//	for ev, err := range r.All() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(ev)
//	}
//
// Event text is valid until the next call to Next; use Event.Clone or ReadAll
// to retain events.
package xmlpull
