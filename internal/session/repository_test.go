package session

import (
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

// fakeTimeSource is a controllable time source
type fakeTimeSource struct {
	now time.Time
}

func (f *fakeTimeSource) Now() time.Time {
	return f.now
}

func (f *fakeTimeSource) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

var _ = Describe("Repository", func() {
	var (
		clock *fakeTimeSource
		repo  *Repository
	)

	BeforeEach(func() {
		clock = &fakeTimeSource{now: time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)}
		repo = NewRepositoryWithTimeSource(clock)
	})

	Describe("GetOrCreate", func() {
		It("should create a fresh idle session on first sight", func() {
			s := repo.GetOrCreate("U1")
			Expect(s.Mode).To(Equal(ModeIdle))
			Expect(s.Step).To(Equal(StepNone))
			Expect(s.EmployeeCode).To(BeEmpty())
			Expect(s.Records).To(BeEmpty())
			Expect(s.LastActivity).To(Equal(clock.now))
		})

		It("should return the same session on subsequent calls", func() {
			s := repo.GetOrCreate("U1")
			s.Mode = ModeUpload
			Expect(repo.GetOrCreate("U1")).To(BeIdenticalTo(s))
		})

		It("should keep identities independent", func() {
			a := repo.GetOrCreate("U1")
			b := repo.GetOrCreate("U2")
			a.Mode = ModeUpload
			Expect(b.Mode).To(Equal(ModeIdle))
		})
	})

	Describe("Reset", func() {
		It("should replace the session wholesale", func() {
			s := repo.GetOrCreate("U1")
			s.Mode = ModeUpload
			s.Step = StepWaitingImage
			s.EmployeeCode = "A0001"

			fresh := repo.Reset("U1")
			Expect(fresh).NotTo(BeIdenticalTo(s))
			Expect(fresh.Mode).To(Equal(ModeIdle))
			Expect(fresh.EmployeeCode).To(BeEmpty())
			Expect(repo.GetOrCreate("U1")).To(BeIdenticalTo(fresh))
		})
	})

	Describe("Touch", func() {
		It("should update LastActivity to now", func() {
			s := repo.GetOrCreate("U1")
			clock.advance(30 * time.Second)
			repo.Touch(s)
			Expect(s.LastActivity).To(Equal(clock.now))
		})
	})

	Describe("IsExpired", func() {
		It("should never expire idle sessions", func() {
			s := repo.GetOrCreate("U1")
			clock.advance(24 * time.Hour)
			Expect(repo.IsExpired(s, time.Minute)).To(BeFalse())
		})

		It("should expire a non-idle session past the timeout", func() {
			s := repo.GetOrCreate("U1")
			s.Mode = ModeUpload
			clock.advance(61 * time.Second)
			Expect(repo.IsExpired(s, time.Minute)).To(BeTrue())
		})

		It("should not expire a non-idle session within the timeout", func() {
			s := repo.GetOrCreate("U1")
			s.Mode = ModeUpload
			clock.advance(59 * time.Second)
			Expect(repo.IsExpired(s, time.Minute)).To(BeFalse())
		})
	})
})

var _ = Describe("Locks", func() {
	It("should serialize the same identity", func() {
		locks := NewLocks()
		release := locks.Acquire("U1")

		acquired := make(chan struct{})
		go func() {
			r := locks.Acquire("U1")
			close(acquired)
			r()
		}()

		Consistently(acquired, 50*time.Millisecond).ShouldNot(BeClosed())
		release()
		Eventually(acquired).Should(BeClosed())
	})

	It("should let different identities proceed in parallel", func() {
		locks := NewLocks()
		releaseA := locks.Acquire("U1")
		defer releaseA()

		done := make(chan struct{})
		go func() {
			r := locks.Acquire("U2")
			r()
			close(done)
		}()
		Eventually(done).Should(BeClosed())
	})

	It("should survive concurrent acquisition", func() {
		locks := NewLocks()
		var wg sync.WaitGroup
		counter := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release := locks.Acquire("U1")
				counter++
				release()
			}()
		}
		wg.Wait()
		Expect(counter).To(Equal(20))
	})
})
