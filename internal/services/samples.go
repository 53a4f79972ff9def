package services

import (
	"github.com/foxxcyber/kargolojik/internal/brand"
	"github.com/foxxcyber/kargolojik/internal/models"
)

const closed = "Kapalı"

func hours(weekdays, saturday, sunday string) map[string]string {
	return map[string]string{
		brand.DayWeekdays: weekdays,
		brand.DaySaturday: saturday,
		brand.DaySunday:   sunday,
	}
}

// SampleBranches returns the demo data set used to seed an empty directory
func SampleBranches() []*models.Branch {
	samples := []*models.Branch{
		{
			Name: "PTT Kargo Kadıköy Şubesi", Company: "PTT Kargo",
			City: "İstanbul", District: "Kadıköy", Address: "Caferağa Mah. Moda Cad. No: 45",
			Phone:         "0 216 346 1234",
			GoogleMapsURL: "https://www.google.com/maps/search/?api=1&query=PTT+Kargo+Kadikoy",
			WorkingHours:  hours("08:30-17:00", closed, closed),
		},
		{
			Name: "Yurtiçi Kargo Beşiktaş Şubesi", Company: "Yurtiçi Kargo",
			City: "İstanbul", District: "Beşiktaş", Address: "Sinanpaşa Mah. Ortabahçe Cad. No: 12",
			Phone:        "0 212 259 5678",
			WorkingHours: hours("09:00-18:00", "09:00-13:00", closed),
		},
		{
			Name: "Aras Kargo Ankara Çankaya Şubesi", Company: "Aras Kargo",
			City: "Ankara", District: "Çankaya", Address: "Kızılay Mah. Atatürk Bulvarı No: 89",
			Phone:        "0 312 425 9012",
			WorkingHours: hours("08:30-18:00", "09:00-14:00", closed),
		},
		{
			Name: "MNG Kargo İzmir Konak Şubesi", Company: "MNG Kargo",
			City: "İzmir", District: "Konak", Address: "Alsancak Mah. Kıbrıs Şehitleri Cad. No: 34",
			Phone:        "0 232 464 3456",
			WorkingHours: hours("09:00-18:00", closed, closed),
		},
		{
			Name: "Sürat Kargo Antalya Merkez Şubesi", Company: "Sürat Kargo",
			City: "Antalya", District: "Muratpaşa", Address: "Şirinyalı Mah. Lara Cad. No: 56",
			Phone:        "0 242 316 7890",
			WorkingHours: hours("08:30-17:30", "09:00-13:00", closed),
		},
		{
			Name: "PTT Kargo Bursa Osmangazi Şubesi", Company: "PTT Kargo",
			City: "Bursa", District: "Osmangazi", Address: "Heykel Mah. Atatürk Cad. No: 78",
			Phone:        "0 224 223 4567",
			WorkingHours: hours("08:30-17:00", closed, closed),
		},
		{
			Name: "Yurtiçi Kargo Adana Seyhan Şubesi", Company: "Yurtiçi Kargo",
			City: "Adana", District: "Seyhan", Address: "Reşatbey Mah. Atatürk Cad. No: 123",
			Phone:        "0 322 458 9012",
			WorkingHours: hours("09:00-18:00", "09:00-13:00", closed),
		},
		{
			Name: "Aras Kargo Trabzon Merkez Şubesi", Company: "Aras Kargo",
			City: "Trabzon", District: "Ortahisar", Address: "Kemerkaya Mah. Maraş Cad. No: 45",
			Phone:        "0 462 321 5678",
			WorkingHours: hours("08:30-18:00", "09:00-14:00", closed),
		},
	}

	for _, b := range samples {
		b.LogoURL = brand.LogoURL(b.Company)
	}
	return samples
}
