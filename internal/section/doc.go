// Package section turns a fetched Wiktionary article into the cleaned body
// of one language section.
//
// The work happens in three steps. Prefilter strips markup that never
// belongs in the dictionary. Classify walks the top-level blocks once and
// keeps the target language's content, dropping (or deferring) the
// subsections listed as back sections. Render serialises what is left.
package section
