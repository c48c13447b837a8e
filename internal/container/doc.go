// Package container implements the .bpak format: a single file holding
// multiple independently named, typed, shaped arrays for bulk persistence.
//
//	Format Structure:
//	  [64-byte fixed header]
//	    0x00: Magic "BPAK"
//	    0x04: Version (uint32 LE)
//	    0x08: Flags (uint32 LE)
//	    0x10: Header Size (uint64 LE)
//	    0x18: Data Size (uint64 LE)
//	    0x20: SHA-256 checksum of the data section (32 bytes)
//	  [Header: JSON metadata]
//	  [Array data: raw bytes, 64-byte aligned, sorted-name order]
//
// Loading a saved container reproduces every array bit-exactly: same shape,
// same dtype, same element order. Saves are atomic: data is written to a
// temporary sibling file and renamed over the destination only after a
// successful sync, so a failed save never leaves a readable container behind.
//
// Example usage:
//
//	arrays := map[string]*array.Array{"x_train": images, "y_train": labels}
//	if err := container.Save("cifar10.bpak", arrays, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, err := container.Load("cifar10.bpak", []string{"x_train", "y_train"})
//	if err != nil {
//	    log.Fatal(err)
//	}
package container
