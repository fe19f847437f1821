// Package milkcat provides Chinese word segmentation and part-of-speech
// tagging over dictionary, bigram, CRF and HMM model tables.
//
// # Quick Start
//
//	proc, err := milkcat.New(milkcat.PlainSegmentTag, "model/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer proc.Close()
//
//	if err := proc.Process(ctx, "我爱北京天安门"); err != nil {
//	    log.Fatal(err)
//	}
//	for proc.Next() {
//	    word, _ := proc.Word()
//	    tag, _, _ := proc.Tag()
//	    fmt.Printf("%s/%s ", word, tag)
//	}
//
// Analyze returns the tokens directly and is the simpler call when no
// cursor is needed:
//
//	tokens, err := proc.Analyze(ctx, text)
//
// # Processor Types
//
//   - PlainSegmentTag: dictionary and bigram lattice, CRF unknown word
//     recognition, HMM tagging with CRF tags for unknown words.
//   - CRFSegmentOnly: character CRF segmentation, no tags.
//   - CRFSegmentTag: character CRF segmentation, CRF tagging.
//   - HMMSegmentTag: dictionary and bigram lattice, HMM unknown word
//     recognition, HMM tagging.
//
// # Thread Safety
//
// A Model may back any number of Processors. Analyze is safe for concurrent
// use and decodes sentences in parallel on a pool of sessions, configurable
// via WithPoolSize. Process and the cursor methods are not safe for
// concurrent use on one Processor.
//
// # Model Files
//
// A model is a directory holding a VERSION marker and one file per table,
// either as text (.txt) or compiled by milkcat-compile (.bin), each
// optionally zstd-compressed (.zst). See package model for the layout.
package milkcat
