// Package serialization reads and writes .morph tagger artifacts.
//
// A .morph file carries everything needed to run the tagger: hyperparameters,
// vocabulary tables, the tag and lemma-op inventories and the float32 weights.
//
//	Format v1:
//	  [4 bytes: Magic "MRPH"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON]
//	  [Tensor data: float32 LE, 64-byte aligned]
//
//	Format v2 (fixed 64-byte prefix):
//	  0x00 magic · 0x04 version · 0x08 flags · 0x0C reserved
//	  0x10 header size (uint64) · 0x18 data size (uint64)
//	  0x20 SHA-256 of the data section
//	  [Header: JSON][padding][Tensor data]
//
// Any other version is rejected with ErrUnsupportedVersion.
//
// Example usage:
//
//	w, err := serialization.NewMorphWriter("tagger.morph")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.WriteArtifact(artifact, serialization.FormatVersionV2)
//
//	artifact, err := serialization.ReadFile("tagger.morph", serialization.ReaderOptions{})
package serialization
