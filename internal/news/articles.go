package news

import "time"

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }

// builtin is the editorial list shown when no feed is configured or the
// feed cannot be read. Newest first; the first entry is featured.
var builtin = []Article{
	{
		ID: "market-growth-2024", Title: "Senegal's property market grows strongly in 2024",
		Excerpt:  "Recent studies show transactions up 15% as demand for housing keeps rising across the country.",
		Body:     "The Senegalese property market is in remarkable health. Demand for housing in Dakar and the secondary cities keeps rising, driven by urban growth and a young population. Developers are responding with mid-range apartment projects while land prices on the outskirts of the capital continue to climb.",
		Category: "Market", Author: "Amadou Diallo", ReadTime: "5 min", Date: day(2024, time.March, 15),
		Image: "https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg?auto=compress&cs=tinysrgb&w=800",
	},
	{
		ID: "foreign-investment-rules", Title: "New rules for foreign property investment",
		Excerpt:  "The government announces measures to make it easier for foreign buyers to invest in real estate.",
		Body:     "Simplified title procedures and a single window for non-resident buyers are part of a package meant to attract foreign capital into residential and commercial property.",
		Category: "Regulation", Author: "Fatou Sall", ReadTime: "3 min", Date: day(2024, time.March, 12),
		Image: "https://images.pexels.com/photos/2724749/pexels-photo-2724749.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID: "saly-destination", Title: "Saly: the property destination of choice for 2024",
		Excerpt:  "The seaside resort draws more and more investors thanks to its tourism potential.",
		Body:     "Holiday rentals and gated residences are multiplying in Saly. Investors cite steady occupancy rates and the new motorway link to Dakar as the main draws.",
		Category: "Investment", Author: "Moussa Ba", ReadTime: "4 min", Date: day(2024, time.March, 10),
		Image: "https://images.pexels.com/photos/1029599/pexels-photo-1029599.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID: "digital-real-estate", Title: "Digital tools are reshaping real estate",
		Excerpt:  "New technology is changing the way we buy and sell property.",
		Body:     "Online listings, virtual tours and electronic signatures shorten the path from first visit to signed deed, and agencies that adopt them report faster sales.",
		Category: "Innovation", Author: "Aïcha Ndiaye", ReadTime: "6 min", Date: day(2024, time.March, 8),
		Image: "https://images.pexels.com/photos/2883049/pexels-photo-2883049.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID: "dakar-prices-q1", Title: "Dakar property prices: first-quarter analysis",
		Excerpt:  "A detailed look at how prices moved in the capital over the first three months of the year.",
		Body:     "Prime districts such as Les Almadies and Mermoz posted the largest increases, while prices in the suburbs stayed broadly flat.",
		Category: "Analysis", Author: "Ibrahima Sarr", ReadTime: "7 min", Date: day(2024, time.March, 5),
		Image: "https://images.pexels.com/photos/1643383/pexels-photo-1643383.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID: "eco-districts", Title: "Eco-districts: the future of housing in Senegal",
		Excerpt:  "Eco-district projects are multiplying and offer a sustainable alternative for urban housing.",
		Body:     "Solar power, rainwater harvesting and shared green spaces feature in several new developments around Diamniadio.",
		Category: "Sustainability", Author: "Mariama Diop", ReadTime: "5 min", Date: day(2024, time.March, 2),
		Image: "https://images.pexels.com/photos/1396132/pexels-photo-1396132.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
	{
		ID: "mortgage-offers", Title: "Home financing: new offers from the banks",
		Excerpt:  "Senegalese banks launch new products to make home ownership more accessible.",
		Body:     "Longer loan terms and lower down payments for first-time buyers are the headline features of this season's mortgage offers.",
		Category: "Financing", Author: "Ousmane Fall", ReadTime: "4 min", Date: day(2024, time.February, 28),
		Image: "https://images.pexels.com/photos/2467558/pexels-photo-2467558.jpeg?auto=compress&cs=tinysrgb&w=400",
	},
}
