package datasets

// Bitmap is a sparse boolean map keyed by uint32, the input format of quaternary filters
type Bitmap map[uint32]bool

// Init resets the bitmap to empty
func (d *Bitmap) Init() {
	*d = make(map[uint32]bool)
}

// SplittedBitmap holds the false keys at index 0 and the true keys at index 1
type SplittedBitmap [2]map[uint32]struct{}

// SplitBitmap splits bitmap into a true set and a false set
func SplitBitmap(d Bitmap) (o SplittedBitmap) {
	o[0] = make(map[uint32]struct{})
	o[1] = make(map[uint32]struct{})
	for k, v := range d {
		if v {
			o[1][k] = struct{}{}
		} else {
			o[0][k] = struct{}{}
		}
	}
	return
}
