// Package walk visits every entity of a message tree, depth first, along with
// the ancestry of each entity.
package walk

import "github.com/zostay/go-mimelite/message"

// Processor is a callback that can be passed to the AndProcess() function to
// do any kind of generic processing of a message and its sub-parts.
//
// The Processor is given a part and the ancestry of the part. If len(parents)
// is zero, then this is the part AndProcess() was called upon, which might not
// be the root of the tree.
//
// The parents slice may be kept after the call returns. Its contents are not
// changed by the rest of the walk.
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error.
type Processor func(part *message.Entity, parents []*message.Entity) error

// AndProcess will walk the parts tree of a message (or a part of a message) and
// call the given Processor function for each part found, parents before their
// children. It will terminate once all parts have been processed and return
// nil. If the Processor function returns an error, it will terminate early and
// return that error.
func AndProcess(
	processor Processor,
	msg *message.Entity,
) error {
	parents := make([]*message.Entity, 0, 10)
	return andProcess(processor, msg, parents)
}

func andProcess(
	processor Processor,
	part *message.Entity,
	parents []*message.Entity,
) error {
	err := processor(part, parents)
	if err != nil {
		return err
	}

	if part.IsMultipart() {
		// clipped so siblings do not share the appended element
		parents = append(parents[:len(parents):len(parents)], part)
		for _, subPart := range part.Parts() {
			err := andProcess(processor, subPart, parents)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// AndProcessLeaves works like AndProcess, but only calls the Processor for
// parts with a body.
func AndProcessLeaves(
	processor Processor,
	msg *message.Entity,
) error {
	return AndProcess(
		func(part *message.Entity, parents []*message.Entity) error {
			if part.IsMultipart() {
				return nil
			}
			return processor(part, parents)
		}, msg)
}

// AndProcessContainers works like AndProcess, but only calls the Processor for
// multipart containers.
func AndProcessContainers(
	processor Processor,
	msg *message.Entity,
) error {
	return AndProcess(
		func(part *message.Entity, parents []*message.Entity) error {
			if !part.IsMultipart() {
				return nil
			}
			return processor(part, parents)
		}, msg)
}
