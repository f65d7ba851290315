package bootstrap

import (
	"context"
	"log"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
)

// Seed loads the demo posts into an empty store. It is a no-op when posts
// already exist, so restarting with SEED_DEMO=true stays safe.
func Seed(ctx context.Context, backend repository.Backend) error {
	existing, err := backend.Posts().List(ctx, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("Posts already exist, skipping demo seed")
		return nil
	}

	demoPosts := []*model.Post{
		{
			Title:      "Selamat datang di KampusConnect!",
			Topic:      "General",
			Content:    "Ini adalah demo forum diskusi mahasiswa. Silahkan eksplorasi fitur-fitur menarik dan bergabung dengan komunitas kami!",
			Type:       model.PostTypeDiscussion,
			AuthorID:   "system",
			AuthorName: "KampusConnect Team",
		},
		{
			Title:      "Bagaimana cara setup React dengan TypeScript?",
			Topic:      "Programming",
			Content:    "Saya ingin belajar React dengan TypeScript. Ada yang bisa kasih tutorial lengkap atau resources yang bagus? Makasih sebelumnya!",
			Type:       model.PostTypeAsk,
			AuthorID:   "user1",
			AuthorName: "AhmadDev",
		},
		{
			Title:      "Diskusi: Best Practices untuk State Management di React",
			Topic:      "Programming",
			Content:    "Mari kita bahas berbagai cara mengelola state di React. Dari useState, useContext, Redux, hingga Zustand. Mana yang menurut kalian paling bagus?",
			Type:       model.PostTypeDiscussion,
			AuthorID:   "user2",
			AuthorName: "SitiDeveloper",
		},
		{
			Title:      "Project: Blog Platform dengan Next.js dan Notion API",
			Topic:      "Project",
			Content:    "Saya buat blog platform yang bisa fetch content dari Notion. Fiturnya: dark mode, search, categories, dan fast loading. Cek di GitHub saya!",
			Type:       model.PostTypeProject,
			AuthorID:   "user3",
			AuthorName: "BudiCreator",
		},
		{
			Title:      "Gimana cara deal dengan imposter syndrome saat belajar coding?",
			Topic:      "Career",
			Content:    "Setiap kali belajar hal baru, saya merasa tidak cukup pintar dan kuatir tidak bisa. Ada tips gimana cara mindsetnya?",
			Type:       model.PostTypeAsk,
			AuthorID:   "user4",
			AuthorName: "RatnaStudent",
		},
		{
			Title:      "Portfolio Review: Feedback untuk project saya?",
			Topic:      "Career",
			Content:    "Saya sudah buat beberapa project untuk portfolio. Minta review dan saran dari teman-teman di sini untuk improvement ke depannya.",
			Type:       model.PostTypeDiscussion,
			AuthorID:   "user5",
			AuthorName: "IkranDev",
		},
		{
			Title:      "Project: Mobile App Edukasi untuk Anak-Anak",
			Topic:      "Project",
			Content:    "Saya develop mobile app yang gamified learning untuk anak SD. Pakai React Native, ada animasi, reward system, dan parental control.",
			Type:       model.PostTypeProject,
			AuthorID:   "user6",
			AuthorName: "InnaInnovator",
		},
		{
			Title:      "Tips interview di startup tech: apa saja yang ditanya?",
			Topic:      "Career",
			Content:    "Ada yang baru saja interview di startup tech? Share dong pengalaman dan pertanyaan yang ditanya. Helpful untuk persiapan teman-teman lain!",
			Type:       model.PostTypeAsk,
			AuthorID:   "user7",
			AuthorName: "FadiCoder",
		},
	}

	for _, p := range demoPosts {
		if _, err := backend.Posts().Create(ctx, p); err != nil {
			log.Printf("Failed to seed post %q: %v", p.Title, err)
		}
	}

	log.Printf("Seeded %d demo posts", len(demoPosts))
	return nil
}
