package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatDate", func() {
	DescribeTable("French short form",
		func(iso, display string) {
			formatted, err := FormatDate(iso)
			Expect(err).NotTo(HaveOccurred())
			Expect(formatted).To(Equal(display))
		},
		Entry("spring date", "2004-04-04", "4 Avr. 04"),
		Entry("epoch", "1970-01-01", "1 Jan. 70"),
		Entry("end of year", "2003-12-31", "31 Déc. 03"),
		Entry("february", "2021-02-09", "9 Fév. 21"),
		Entry("august", "2022-08-15", "15 Aoû. 22"),
		Entry("single digit year part", "2001-06-01", "1 Jui. 01"),
	)

	When("the date is not ISO formatted", func() {
		It("returns an error", func() {
			_, err := FormatDate("04/04/2004")
			Expect(err).To(HaveOccurred())
		})
	})

	When("the date is empty", func() {
		It("returns an error", func() {
			_, err := FormatDate("")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("FormatStatus", func() {
	DescribeTable("localized labels",
		func(s Status, label string) {
			Expect(FormatStatus(s)).To(Equal(label))
		},
		Entry("pending", StatusPending, "En attente"),
		Entry("accepted", StatusAccepted, "Accepté"),
		Entry("refused", StatusRefused, "Refused"),
		Entry("unknown passes through", Status("archived"), "archived"),
	)
})
