package core

// Barrier collects flush acknowledgements from the folder workers. The
// flushing caller waits for one notification per folder; folders only
// notify after their queue has been drained up to the sentinel.
type Barrier struct {
	folders chan bool
}

func NewBarrier(numFolders int) *Barrier {
	return &Barrier{
		folders: make(chan bool, numFolders),
	}
}

func (b *Barrier) Notify() {
	b.folders <- true
}

func (b *Barrier) Wait(n int) {
	for i := 0; i < n; i++ {
		<-b.folders
	}
}
