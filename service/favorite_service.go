package service

import (
	"forumhub/internal/auth"
)

// FavoriteService flips the caller's favorite mark on a topic, same toggle
// contract as the follow edge: each call changes state exactly once.
type FavoriteService struct {
	topics    topicStore
	favorites favoriteRepo
}

func NewFavoriteService(topics topicStore, favorites favoriteRepo) *FavoriteService {
	return &FavoriteService{topics: topics, favorites: favorites}
}

// Toggle favorites the topic if not yet marked, unfavorites it otherwise.
// Returns true when the call resulted in a favorite.
func (s *FavoriteService) Toggle(actor auth.Identity, topicID uint64) (bool, error) {
	topic, err := s.topics.FindByID(topicID)
	if err != nil {
		return false, err
	}

	marked, err := s.favorites.Exists(actor.UserID, topic.ID)
	if err != nil {
		return false, err
	}
	if marked {
		if err := s.favorites.Remove(actor.UserID, topic.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.favorites.Add(actor.UserID, topic.ID); err != nil {
		return false, err
	}
	return true, nil
}
