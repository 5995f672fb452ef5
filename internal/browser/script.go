package browser

// bindingName is the page function that hands events to Go
const bindingName = "__pomgenEvent"

// pageScript installs window.__pomgen in every document. Listeners exist only
// between show() and teardown(). Clicks on non-input elements are suppressed
// synchronously in the page; the Go side cannot answer in time.
const pageScript = `() => {
	if (window.__pomgen) return;

	const OVERLAY_ID = '__pomgen-overlay';
	const STYLE_ID = '__pomgen-style';
	let active = false;
	let lastTarget = null;

	const emit = (kind, el) => {
		const fn = window.` + bindingName + `;
		if (typeof fn !== 'function') return;
		const tip = document.querySelector('#' + OVERLAY_ID + ' .pomgen-tip');
		const msg = {
			kind: kind,
			url: location.href,
			viewport: { width: window.innerWidth, height: window.innerHeight },
			tooltip: tip ? { width: tip.offsetWidth, height: tip.offsetHeight } : { width: 0, height: 0 },
		};
		if (el) msg.target = snapshot(el);
		fn(msg);
	};

	const isInputLike = (el) => {
		if (!el || el.nodeType !== 1) return false;
		const tag = el.tagName.toLowerCase();
		return tag === 'input' || tag === 'textarea' || tag === 'select' || el.hasAttribute('contenteditable');
	};

	const inOverlay = (el) => !!(el && el.closest && el.closest('#' + OVERLAY_ID));

	const snapshot = (el) => {
		const chain = [];
		for (let n = el; n && n.nodeType === 1; n = n.parentElement) {
			const link = {
				tag: n.tagName.toLowerCase(),
				attrs: Array.from(n.attributes).map(a => [a.name, a.value]),
				index: 0,
			};
			const parent = n.parentElement;
			if (parent) {
				const kids = Array.from(parent.children).filter(k => k.id !== OVERLAY_ID);
				link.siblings = kids.map(k => k.tagName.toLowerCase());
				link.index = kids.indexOf(n);
			}
			if (n !== el && link.tag === 'label') link.text = n.textContent || '';
			chain.push(link);
		}

		const tag = el.tagName.toLowerCase();
		const r = el.getBoundingClientRect();
		const snap = {
			url: location.href,
			chain: chain,
			text: el.textContent || '',
			rect: { x: r.left, y: r.top, width: r.width, height: r.height },
		};
		if (tag === 'input' || tag === 'textarea') {
			snap.value = el.value || '';
			snap.checked = !!el.checked;
		} else if (tag === 'select') {
			snap.value = el.value || '';
			snap.options = Array.from(el.options).map(o => ({ value: o.value, selected: o.selected }));
		} else if (el.hasAttribute('contenteditable')) {
			snap.text = el.innerText || '';
		}
		if (el.id) {
			const label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (label) snap.forLabel = label.textContent || '';
		}
		return snap;
	};

	const find = (locator, xpath) => {
		try {
			if (xpath) {
				return document.evaluate(locator, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
			}
			return document.querySelector(locator);
		} catch (e) {
			return null;
		}
	};

	const onMove = (e) => {
		if (inOverlay(e.target) || e.target === lastTarget) return;
		lastTarget = e.target;
		emit('pointermove', e.target);
	};
	const onLeave = () => {
		lastTarget = null;
		emit('pointerleave');
	};
	const onClick = (e) => {
		if (inOverlay(e.target)) return;
		if (!isInputLike(e.target)) {
			e.preventDefault();
			e.stopPropagation();
		}
		emit('click', e.target);
	};
	const onFocusIn = (e) => { if (isInputLike(e.target)) emit('focusin', e.target); };
	const onInput = (e) => { if (isInputLike(e.target)) emit('input', e.target); };
	const onChange = (e) => { if (isInputLike(e.target)) emit('change', e.target); };
	const onFocusOut = (e) => { if (isInputLike(e.target)) emit('blur', e.target); };

	const listeners = [
		[document, 'pointermove', onMove],
		[document.documentElement, 'pointerleave', onLeave],
		[document, 'click', onClick],
		[document, 'focusin', onFocusIn],
		[document, 'input', onInput],
		[document, 'change', onChange],
		[document, 'focusout', onFocusOut],
	];

	window.__pomgen = {
		show() {
			if (active || !document.body) return;
			active = true;

			const style = document.createElement('style');
			style.id = STYLE_ID;
			style.textContent =
				'#' + OVERLAY_ID + '{position:fixed;inset:0;pointer-events:none;z-index:2147483647}' +
				'#' + OVERLAY_ID + ' .pomgen-box{position:fixed;display:none;border:2px solid #4285f4;background:rgba(66,133,244,.12);border-radius:3px}' +
				'#' + OVERLAY_ID + ' .pomgen-tip{position:fixed;display:none;max-width:320px;padding:6px 8px;font:12px/1.4 monospace;color:#fff;background:#202124;border-radius:4px}' +
				'#' + OVERLAY_ID + ' .pomgen-tip div:last-child{color:#8ab4f8}' +
				'.pomgen-pulse{animation:pomgen-pulse .6s ease-out}' +
				'@keyframes pomgen-pulse{0%{box-shadow:0 0 0 0 rgba(52,168,83,.8)}100%{box-shadow:0 0 0 12px rgba(52,168,83,0)}}' +
				'.pomgen-focus{outline:2px dashed #34a853 !important;outline-offset:2px}';
			document.documentElement.appendChild(style);

			const overlay = document.createElement('div');
			overlay.id = OVERLAY_ID;
			overlay.innerHTML = '<div class="pomgen-box"></div><div class="pomgen-tip"><div></div><div></div><div></div><div></div></div>';
			document.documentElement.appendChild(overlay);

			listeners.forEach(([t, name, fn]) => t.addEventListener(name, fn, true));
		},

		teardown() {
			if (!active) return;
			active = false;
			lastTarget = null;
			listeners.forEach(([t, name, fn]) => t.removeEventListener(name, fn, true));
			const overlay = document.getElementById(OVERLAY_ID);
			if (overlay) overlay.remove();
			const style = document.getElementById(STYLE_ID);
			if (style) style.remove();
			document.querySelectorAll('.pomgen-focus, .pomgen-pulse').forEach(el => {
				el.classList.remove('pomgen-focus', 'pomgen-pulse');
			});
		},

		highlight(h) {
			const overlay = document.getElementById(OVERLAY_ID);
			if (!overlay) return;
			const box = overlay.querySelector('.pomgen-box');
			box.style.left = h.box.x + 'px';
			box.style.top = h.box.y + 'px';
			box.style.width = h.box.width + 'px';
			box.style.height = h.box.height + 'px';
			box.style.display = 'block';

			const tip = overlay.querySelector('.pomgen-tip');
			const rows = tip.children;
			rows[0].textContent = h.tooltip.summary;
			rows[1].textContent = h.tooltip.preview || '';
			rows[1].style.display = h.tooltip.preview ? 'block' : 'none';
			rows[2].textContent = h.tooltip.dimensions;
			rows[3].textContent = h.tooltip.hint;
			tip.style.left = h.tooltipAt.x + 'px';
			tip.style.top = h.tooltipAt.y + 'px';
			tip.style.display = 'block';
		},

		hide() {
			const overlay = document.getElementById(OVERLAY_ID);
			if (!overlay) return;
			overlay.querySelectorAll('.pomgen-box, .pomgen-tip').forEach(el => { el.style.display = 'none'; });
		},

		pulse(locator, xpath) {
			const el = find(locator, xpath);
			if (!el) return false;
			el.classList.remove('pomgen-pulse');
			void el.offsetWidth;
			el.classList.add('pomgen-pulse');
			setTimeout(() => el.classList.remove('pomgen-pulse'), 700);
			return true;
		},

		focus(locator, xpath, on) {
			const el = find(locator, xpath);
			if (!el) return false;
			el.classList.toggle('pomgen-focus', on);
			return true;
		},
	};

	const ready = () => emit('ready');
	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', ready, { once: true });
	} else {
		ready();
	}
}`
