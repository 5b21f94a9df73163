package entity

// Transfer moves item from one collection to another. It is the only way coins
// change hands: collecting and depositing are both a Transfer with the ends swapped.
// It returns false, leaving both collections untouched, when item is not in from
// or when from and to are the same collection.
func Transfer(from, to ItemCollection, item Item) bool {
	if from == to {
		return false
	}
	if !from.Take(item) {
		return false
	}
	to.Put(item)
	return true
}
