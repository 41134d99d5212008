package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/streameasy/internal/model"
	"github.com/user/streameasy/internal/repository"
	"github.com/user/streameasy/internal/state"
)

// exploreForm 探索页的全部交互：
// 切换标签 / 应用筛选 / 搜索 / 收藏 / 取消收藏
type exploreForm struct {
	Action      string `form:"action" binding:"required,oneof=tab filter search favorite unfavorite"`
	Tab         string `form:"tab" binding:"omitempty,oneof=all_movies all_tv all_favorites"`
	Filter      string `form:"filter"`
	Query       string `form:"query"`
	ContentID   int    `form:"content_id"`
	ContentType string `form:"content_type" binding:"omitempty,oneof=movie tv"`
}

// renderExplore 渲染探索页指定标签
func (h *Handler) renderExplore(c *gin.Context, s *state.Session, option string, data []model.Content) {
	c.HTML(http.StatusOK, "explore.html", h.RenderData(c, s, gin.H{
		"Title":     "探索 - " + h.Config.SiteName,
		"Option":    option,
		"Data":      data,
		"SortTypes": model.SortTypes,
	}))
}

// refreshFavorites 用收藏列表自己的筛选条件刷新会话镜像
func (h *Handler) refreshFavorites(c *gin.Context, s *state.Session, repos *repository.Repositories) error {
	if s.FavoriteFilter == "" {
		s.FavoriteFilter = model.SortPopularityHigh
	}
	favorites, err := repos.Content.ListFavorites(c.Request.Context(), s.Username, s.FavoriteFilter)
	if err != nil {
		return err
	}
	s.AllFavorites = favorites
	return nil
}

// Explore 探索页，默认展示收藏列表
func (h *Handler) Explore(c *gin.Context) {
	s := h.session(c)

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		return h.refreshFavorites(c, s, repos)
	}) {
		return
	}
	h.Sessions.Save(c, s)
	h.renderExplore(c, s, "all_favorites", s.AllFavorites)
}

// ExploreAction 探索页的 POST 交互入口
func (h *Handler) ExploreAction(c *gin.Context) {
	s := h.session(c)

	var form exploreForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/explore")
		return
	}

	switch form.Action {
	case "tab":
		h.switchExploreTab(c, s, form.Tab)
	case "filter":
		h.filterExplore(c, s, form.Tab, form.Filter)
	case "search":
		h.search(c, s, form.Tab, form.Query)
	case "favorite":
		h.favorite(c, s, form.ContentID, form.ContentType)
	case "unfavorite":
		h.unfavorite(c, s, form.ContentID)
	}
}

// switchExploreTab 切换标签，首次进入某列表时懒初始化它的筛选条件
func (h *Handler) switchExploreTab(c *gin.Context, s *state.Session, tab string) {
	switch tab {
	case "all_movies":
		if s.MovieFilter == "" {
			s.MovieFilter = model.SortPopularityHigh
		}
		if !h.withConn(c, s, func(repos *repository.Repositories) error {
			movies, err := repos.Content.ListMovies(c.Request.Context(), s.MovieFilter)
			if err != nil {
				return err
			}
			s.AllMovies = movies
			return nil
		}) {
			return
		}
		h.Sessions.Save(c, s)
		h.renderExplore(c, s, "all_movies", s.AllMovies)

	case "all_tv":
		if s.TVFilter == "" {
			s.TVFilter = model.SortPopularityHigh
		}
		if !h.withConn(c, s, func(repos *repository.Repositories) error {
			shows, err := repos.Content.ListTVShows(c.Request.Context(), s.TVFilter)
			if err != nil {
				return err
			}
			s.AllTV = shows
			return nil
		}) {
			return
		}
		h.Sessions.Save(c, s)
		h.renderExplore(c, s, "all_tv", s.AllTV)

	default:
		// 收藏标签走 GET 流程
		c.Redirect(http.StatusFound, "/explore")
	}
}

// filterExplore 对指定标签应用筛选并刷新对应列表
func (h *Handler) filterExplore(c *gin.Context, s *state.Session, tab, filter string) {
	sort, err := model.ParseSortType(filter)
	if err != nil {
		h.flash(c, "error", "无法识别的筛选条件。")
		c.Redirect(http.StatusFound, "/explore")
		return
	}

	switch tab {
	case "all_movies":
		if !h.withConn(c, s, func(repos *repository.Repositories) error {
			movies, err := repos.Content.ListMovies(c.Request.Context(), sort)
			if err != nil {
				return err
			}
			s.MovieFilter = sort
			s.AllMovies = movies
			return nil
		}) {
			return
		}
		h.Sessions.Save(c, s)
		h.renderExplore(c, s, "all_movies", s.AllMovies)

	case "all_tv":
		if !h.withConn(c, s, func(repos *repository.Repositories) error {
			shows, err := repos.Content.ListTVShows(c.Request.Context(), sort)
			if err != nil {
				return err
			}
			s.TVFilter = sort
			s.AllTV = shows
			return nil
		}) {
			return
		}
		h.Sessions.Save(c, s)
		h.renderExplore(c, s, "all_tv", s.AllTV)

	case "all_favorites":
		if !h.withConn(c, s, func(repos *repository.Repositories) error {
			s.FavoriteFilter = sort
			return h.refreshFavorites(c, s, repos)
		}) {
			return
		}
		h.Sessions.Save(c, s)
		h.renderExplore(c, s, "all_favorites", s.AllFavorites)

	default:
		h.flash(c, "error", "筛选缺少目标列表。")
		c.Redirect(http.StatusFound, "/explore")
	}
}

// search 按关键词搜索电影或剧集。搜索结果是临时数据，不写入会话镜像
func (h *Handler) search(c *gin.Context, s *state.Session, tab, query string) {
	if query == "" {
		h.flash(c, "error", "请输入搜索关键词。")
		c.Redirect(http.StatusFound, "/explore")
		return
	}

	var results []model.Content
	option := "all_movies"
	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		var err error
		if tab == "all_tv" {
			option = "all_tv"
			results, err = repos.Content.SearchTVShows(c.Request.Context(), query)
		} else {
			results, err = repos.Content.SearchMovies(c.Request.Context(), query)
		}
		return err
	}) {
		return
	}
	h.renderExplore(c, s, option, results)
}

// favorite 收藏内容，渲染回动作发起的标签
func (h *Handler) favorite(c *gin.Context, s *state.Session, contentID int, contentType string) {
	if contentID <= 0 {
		h.flash(c, "error", "未指定要收藏的内容。")
		c.Redirect(http.StatusFound, "/explore")
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		favorited, err := repos.Content.IsFavorited(ctx, s.Username, contentID)
		if err != nil {
			return err
		}
		if favorited {
			h.flash(c, "success", "你已经收藏过这个内容了！")
			return nil
		}

		added, err := repos.Content.AddFavorite(ctx, s.Username, contentID)
		if err != nil {
			return err
		}
		if !added {
			h.flash(c, "error", "收藏失败，请重试。")
			return nil
		}

		h.flash(c, "success", "收藏成功！")
		return h.refreshFavorites(c, s, repos)
	}) {
		return
	}
	h.Sessions.Save(c, s)

	if contentType == "tv" {
		h.renderExplore(c, s, "all_tv", s.AllTV)
		return
	}
	h.renderExplore(c, s, "all_movies", s.AllMovies)
}

// unfavorite 取消收藏后回到收藏列表
func (h *Handler) unfavorite(c *gin.Context, s *state.Session, contentID int) {
	if contentID <= 0 {
		h.flash(c, "error", "未指定要取消收藏的内容。")
		c.Redirect(http.StatusFound, "/explore")
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		removed, err := repos.Content.RemoveFavorite(ctx, s.Username, contentID)
		if err != nil {
			return err
		}
		if removed {
			h.flash(c, "success", "已取消收藏。")
		} else {
			h.flash(c, "error", "取消收藏失败，请重试。")
		}
		return h.refreshFavorites(c, s, repos)
	}) {
		return
	}
	h.Sessions.Save(c, s)
	c.Redirect(http.StatusFound, "/explore")
}
